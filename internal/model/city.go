package model

import "time"

// City represents an uploaded save game
type City struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	MapName        string    `json:"mapName" db:"map_name"`
	Theme          string    `json:"theme" db:"theme"`
	GameMode       string    `json:"gameMode" db:"game_mode"`
	Population     int64     `json:"population" db:"population"`
	Money          int64     `json:"money" db:"money"`
	XP             int64     `json:"xp" db:"xp"`
	UnlimitedMoney bool      `json:"unlimitedMoney" db:"unlimited_money"`
	UnlimitedXP    bool      `json:"unlimitedXp" db:"unlimited_xp"`
	FilePath       string    `json:"filePath" db:"file_path"`
	FileSize       int64     `json:"fileSize" db:"file_size"`
	Description    string    `json:"description" db:"description"`
	Downloadable   bool      `json:"downloadable" db:"downloadable"`
	DownloadCount  int64     `json:"downloadCount" db:"download_count"`
	UploadedAt     time.Time `json:"uploadedAt" db:"uploaded_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// CitySummary is a city joined with its owner and aggregated counters, as shown in listings
type CitySummary struct {
	City
	Username         string  `json:"username" db:"username"`
	IsContentCreator bool    `json:"isContentCreator" db:"is_content_creator"`
	PrimaryImageURL  *string `json:"primaryImageUrl,omitempty" db:"primary_image_url"`
	ImageCount       int64   `json:"imageCount" db:"image_count"`
	CommentCount     int64   `json:"commentCount" db:"comment_count"`
	LikeCount        int64   `json:"likeCount" db:"like_count"`
	FavoriteCount    int64   `json:"favoriteCount" db:"favorite_count"`
}

// CityImage is an uploaded screenshot of a city
type CityImage struct {
	ID           int64     `json:"id" db:"id"`
	CityID       int64     `json:"cityId" db:"city_id"`
	OriginalURL  string    `json:"originalUrl" db:"original_url"`
	LargeURL     string    `json:"largeUrl" db:"large_url"`
	MediumURL    string    `json:"mediumUrl" db:"medium_url"`
	ThumbnailURL string    `json:"thumbnailUrl" db:"thumbnail_url"`
	FileSize     int64     `json:"fileSize" db:"file_size"`
	MimeType     string    `json:"mimeType" db:"mime_type"`
	IsPrimary    bool      `json:"isPrimary" db:"is_primary"`
	SortOrder    int       `json:"sortOrder" db:"sort_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// HallOfFameImage is an externally sourced image, linked to a city by city_id
type HallOfFameImage struct {
	ID                int64     `json:"id" db:"id"`
	HofImageID        string    `json:"hofImageId" db:"hof_image_id"`
	CityID            *int64    `json:"cityId,omitempty" db:"city_id"`
	CityName          string    `json:"cityName" db:"city_name"`
	CreatorName       string    `json:"creatorName" db:"creator_name"`
	ImageURLThumbnail string    `json:"imageUrlThumbnail" db:"image_url_thumbnail"`
	ImageURLMedium    string    `json:"imageUrlMedium" db:"image_url_medium"`
	ImageURLLarge     string    `json:"imageUrlLarge" db:"image_url_large"`
	ImageURLOriginal  string    `json:"imageUrlOriginal" db:"image_url_original"`
	IsPrimary         bool      `json:"isPrimary" db:"is_primary"`
	Views             int64     `json:"views" db:"views"`
	Favorites         int64     `json:"favorites" db:"favorites"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	SyncedAt          time.Time `json:"syncedAt" db:"synced_at"`
}

// ImageSource tells which table a primary image selection refers to
type ImageSource string

const (
	ImageSourceUpload     ImageSource = "upload"
	ImageSourceHallOfFame ImageSource = "hall_of_fame"
)

// Valid reports whether s is a known image source
func (s ImageSource) Valid() bool {
	return s == ImageSourceUpload || s == ImageSourceHallOfFame
}

// CityStats holds the engagement counters of a city detail page
type CityStats struct {
	Likes     int64 `json:"likes"`
	Favorites int64 `json:"favorites"`
	Comments  int64 `json:"comments"`
	Downloads int64 `json:"downloads"`
}

// CityDetail is the full representation of a single city
type CityDetail struct {
	City             CitySummary       `json:"city"`
	Owner            PublicUser        `json:"owner"`
	Images           []CityImage       `json:"images"`
	HallOfFameImages []HallOfFameImage `json:"hallOfFameImages"`
	Stats            CityStats         `json:"stats"`
}

// CommunityStats holds site-wide totals
type CommunityStats struct {
	TotalCities    int64 `json:"totalCities" db:"total_cities"`
	TotalUsers     int64 `json:"totalUsers" db:"total_users"`
	TotalLikes     int64 `json:"totalLikes" db:"total_likes"`
	TotalComments  int64 `json:"totalComments" db:"total_comments"`
	TotalDownloads int64 `json:"totalDownloads" db:"total_downloads"`
	TotalImages    int64 `json:"totalImages" db:"total_images"`
}

// PrimaryImageFixResult reports what a primary image repair pass changed
type PrimaryImageFixResult struct {
	DuplicatesCleared int64 `json:"duplicatesCleared"`
	PrimariesAssigned int64 `json:"primariesAssigned"`
}
