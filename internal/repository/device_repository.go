package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fitStreakAPI/internal/types/notification"
)

type DeviceRepository struct {
	db *pgxpool.Pool
}

func NewDeviceRepository(db *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Upsert registers a token, moving it to userID if another user held it.
func (r *DeviceRepository) Upsert(ctx context.Context, t notification.DeviceToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO device_tokens (token, user_id, platform, added_at, last_used)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			last_used = NOW()
	`, t.Token, t.UserID, t.Platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) ListByUser(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, token, platform, added_at, last_used
		FROM device_tokens WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var out []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.UserID, &t.Token, &t.Platform, &t.AddedAt, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
