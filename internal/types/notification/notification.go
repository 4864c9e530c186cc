package notification

import "time"

type NotificationType string

const (
	NotificationBadgeEarned NotificationType = "badge_earned"
	NotificationStreakRisk  NotificationType = "streak_risk"
)

type DeviceToken struct {
	UserID   string    `json:"userId" db:"user_id"`
	Token    string    `json:"token" db:"token"`
	Platform string    `json:"platform" db:"platform"`
	AddedAt  time.Time `json:"addedAt" db:"added_at"`
	LastUsed time.Time `json:"lastUsed" db:"last_used"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required|in:ios,android,web"`
}
