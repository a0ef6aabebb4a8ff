package model

import "time"

// APIKey is a credential for the external creator API. Only the hash of the secret is stored.
type APIKey struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	KeyPrefix  string     `json:"keyPrefix" db:"key_prefix"`
	KeyHash    string     `json:"-" db:"key_hash"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// APIKeyView is an API key joined with its owner for the admin listing
type APIKeyView struct {
	APIKey
	Username string `json:"username" db:"username"`
}

// CreatedAPIKey carries the plaintext key; it is only ever returned from creation
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}

// Moderation setting keys
const (
	ModerationProfanityWords = "profanity_words"
	ModerationSpamIndicators = "spam_indicators"
	ModerationMaxLinks       = "max_links"
	ModerationEnabled        = "enabled"
)

// ModerationSettings drive comment validation
type ModerationSettings struct {
	ProfanityWords []string `json:"profanityWords"`
	SpamIndicators []string `json:"spamIndicators"`
	MaxLinks       int      `json:"maxLinks"`
	Enabled        bool     `json:"enabled"`
}

// DefaultModerationSettings apply until an admin saves settings
func DefaultModerationSettings() ModerationSettings {
	return ModerationSettings{
		ProfanityWords: []string{},
		SpamIndicators: []string{"buy now", "click here", "free money"},
		MaxLinks:       2,
		Enabled:        true,
	}
}

// AdminUsersResponse is a page of the admin user listing
type AdminUsersResponse struct {
	Users  []AdminUser `json:"users"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
