package model

import "time"

// User represents an account in the database
type User struct {
	ID               int64      `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	Username         string     `json:"username" db:"username"`
	PasswordHash     *string    `json:"-" db:"password_hash"`
	GoogleID         *string    `json:"-" db:"google_id"`
	GithubID         *string    `json:"-" db:"github_id"`
	Name             string     `json:"name" db:"name"`
	AvatarURL        string     `json:"avatarUrl" db:"avatar_url"`
	Bio              string     `json:"bio" db:"bio"`
	WebsiteURL       string     `json:"websiteUrl" db:"website_url"`
	TwitterURL       string     `json:"twitterUrl" db:"twitter_url"`
	YoutubeURL       string     `json:"youtubeUrl" db:"youtube_url"`
	TwitchURL        string     `json:"twitchUrl" db:"twitch_url"`
	IsAdmin          bool       `json:"isAdmin" db:"is_admin"`
	IsContentCreator bool       `json:"isContentCreator" db:"is_content_creator"`
	CookieConsent    *string    `json:"cookieConsent,omitempty" db:"cookie_consent"`
	CookieConsentAt  *time.Time `json:"cookieConsentAt,omitempty" db:"cookie_consent_at"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the profile shown to other users; it never carries the email
type PublicUser struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Name             string    `json:"name"`
	AvatarURL        string    `json:"avatarUrl"`
	Bio              string    `json:"bio"`
	WebsiteURL       string    `json:"websiteUrl,omitempty"`
	TwitterURL       string    `json:"twitterUrl,omitempty"`
	YoutubeURL       string    `json:"youtubeUrl,omitempty"`
	TwitchURL        string    `json:"twitchUrl,omitempty"`
	IsContentCreator bool      `json:"isContentCreator"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Public strips private fields from u
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Username:         u.Username,
		Name:             u.Name,
		AvatarURL:        u.AvatarURL,
		Bio:              u.Bio,
		WebsiteURL:       u.WebsiteURL,
		TwitterURL:       u.TwitterURL,
		YoutubeURL:       u.YoutubeURL,
		TwitchURL:        u.TwitchURL,
		IsContentCreator: u.IsContentCreator,
		CreatedAt:        u.CreatedAt,
	}
}

// AdminUser is a row of the admin user listing
type AdminUser struct {
	User
	CityCount int64 `json:"cityCount" db:"city_count"`
}

// Cookie consent values
const (
	CookieConsentAccepted = "accepted"
	CookieConsentRejected = "rejected"
)

// AuthResponse is returned by register and login; the session token travels in a cookie
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"-"`
}
