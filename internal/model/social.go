package model

import "time"

// Comment is a user comment on a city
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	CityID    int64     `json:"cityId" db:"city_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentView is a comment joined with its author and city. Author fields are empty when
// the author account was deleted.
type CommentView struct {
	Comment
	Username  *string `json:"username,omitempty" db:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty" db:"avatar_url"`
	CityName  string  `json:"cityName" db:"city_name"`
}

// Notification types
const (
	NotificationFollow  = "follow"
	NotificationComment = "comment"
	NotificationNewCity = "new_city"
	NotificationLike    = "like"
)

// Notification is a user-targeted event
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	ActorID   *int64    `json:"actorId,omitempty" db:"actor_id"`
	CityID    *int64    `json:"cityId,omitempty" db:"city_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ToggleResult is the state after a like, favorite or follow toggle
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// NotificationsResponse is returned by GET /api/notifications
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int64          `json:"unread"`
}
