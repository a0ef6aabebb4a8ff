package model

// RegisterRequest creates a password account
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest accepts an email or a username as Login
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CookieConsentRequest records the cookie banner choice
type CookieConsentRequest struct {
	Consent string `json:"consent"`
}

// CityInput is the writable part of a city
type CityInput struct {
	Name           string `json:"name"`
	MapName        string `json:"mapName"`
	Theme          string `json:"theme"`
	GameMode       string `json:"gameMode"`
	Population     int64  `json:"population"`
	Money          int64  `json:"money"`
	XP             int64  `json:"xp"`
	UnlimitedMoney bool   `json:"unlimitedMoney"`
	UnlimitedXP    bool   `json:"unlimitedXp"`
	FilePath       string `json:"filePath"`
	FileSize       int64  `json:"fileSize"`
	Description    string `json:"description"`
	Downloadable   *bool  `json:"downloadable"`
}

// ImageInput describes an image already stored by the upload pipeline
type ImageInput struct {
	OriginalURL  string `json:"originalUrl"`
	LargeURL     string `json:"largeUrl"`
	MediumURL    string `json:"mediumUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FileSize     int64  `json:"fileSize"`
	MimeType     string `json:"mimeType"`
}

// SetPrimaryRequest selects the source table of the image in the URL
type SetPrimaryRequest struct {
	Source ImageSource `json:"source"`
}

// CommentRequest posts a comment
type CommentRequest struct {
	Content string `json:"content"`
}

// ToggleAdminRequest sets the admin flag
type ToggleAdminRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

// ToggleContentCreatorRequest sets the content creator flag
type ToggleContentCreatorRequest struct {
	IsContentCreator *bool `json:"isContentCreator"`
}

// CreateAPIKeyRequest creates a key for a user
type CreateAPIKeyRequest struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// ToggleAPIKeyRequest activates or deactivates a key
type ToggleAPIKeyRequest struct {
	IsActive *bool `json:"isActive"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}
