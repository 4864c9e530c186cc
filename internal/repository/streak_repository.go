// Package repository holds the PostgreSQL stores behind the services.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/types/streak"
)

const streakColumns = `user_id, workout_streak, water_streak, diet_streak,
	last_workout_date, last_water_date, last_diet_date, badges, created_at, updated_at`

type StreakRepository struct {
	db *pgxpool.Pool
}

func NewStreakRepository(db *pgxpool.Pool) *StreakRepository {
	return &StreakRepository{db: db}
}

// GetByUserID returns common.ErrStreakNotFound when the user has no record yet.
func (r *StreakRepository) GetByUserID(ctx context.Context, userID string) (*streak.Streak, error) {
	row := r.db.QueryRow(ctx, `SELECT `+streakColumns+` FROM streaks WHERE user_id = $1`, userID)
	s, err := scanStreak(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrStreakNotFound
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return s, nil
}

// Create inserts an empty record unless one exists, then returns the stored row.
func (r *StreakRepository) Create(ctx context.Context, userID string) (*streak.Streak, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO streaks (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *StreakRepository) Save(ctx context.Context, s *streak.Streak) error {
	badges := s.Badges
	if badges == nil {
		badges = []streak.Badge{}
	}
	badgesJSON, err := json.Marshal(badges)
	if err != nil {
		return fmt.Errorf("failed to encode badges: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO streaks (user_id, workout_streak, water_streak, diet_streak,
			last_workout_date, last_water_date, last_diet_date, badges)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			workout_streak = EXCLUDED.workout_streak,
			water_streak = EXCLUDED.water_streak,
			diet_streak = EXCLUDED.diet_streak,
			last_workout_date = EXCLUDED.last_workout_date,
			last_water_date = EXCLUDED.last_water_date,
			last_diet_date = EXCLUDED.last_diet_date,
			badges = EXCLUDED.badges,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, s.UserID, s.WorkoutStreak, s.WaterStreak, s.DietStreak,
		s.LastWorkoutDate, s.LastWaterDate, s.LastDietDate, badgesJSON,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// ListActiveSince returns records with any activity at or after since.
func (r *StreakRepository) ListActiveSince(ctx context.Context, since time.Time) ([]*streak.Streak, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+streakColumns+` FROM streaks
		WHERE last_workout_date >= $1 OR last_water_date >= $1 OR last_diet_date >= $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}
	defer rows.Close()

	var out []*streak.Streak
	for rows.Next() {
		s, err := scanStreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStreak(row pgx.Row) (*streak.Streak, error) {
	s := &streak.Streak{}
	var badgesJSON []byte
	err := row.Scan(
		&s.UserID, &s.WorkoutStreak, &s.WaterStreak, &s.DietStreak,
		&s.LastWorkoutDate, &s.LastWaterDate, &s.LastDietDate,
		&badgesJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Badges = []streak.Badge{}
	if len(badgesJSON) > 0 {
		if err := json.Unmarshal(badgesJSON, &s.Badges); err != nil {
			return nil, fmt.Errorf("failed to decode badges: %w", err)
		}
	}
	return s, nil
}
