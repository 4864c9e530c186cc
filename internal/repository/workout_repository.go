package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/types/workout"
)

const workoutColumns = `id, user_id, type, duration, calories, date, image, notes, created_at`

type WorkoutRepository struct {
	db *pgxpool.Pool
}

func NewWorkoutRepository(db *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) Create(ctx context.Context, w *workout.Workout) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO workouts (id, user_id, type, duration, calories, date, image, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, w.ID, w.UserID, w.Type, w.Duration, w.Calories, w.Date, w.Image, w.Notes).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (r *WorkoutRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*workout.Workout, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return w, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, w *workout.Workout) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workouts SET type = $3, duration = $4, calories = $5, image = $6, notes = $7
		WHERE id = $1 AND user_id = $2
	`, w.ID, w.UserID, w.Type, w.Duration, w.Calories, w.Image, w.Notes)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrWorkoutNotFound
	}
	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrWorkoutNotFound
	}
	return nil
}

func (r *WorkoutRepository) List(ctx context.Context, userID string, limit int) ([]workout.Workout, error) {
	return r.query(ctx, `SELECT `+workoutColumns+` FROM workouts
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
}

func (r *WorkoutRepository) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]workout.Workout, error) {
	return r.query(ctx, `SELECT `+workoutColumns+` FROM workouts
		WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC`, userID, start, end)
}

// ExistsBetween reports whether the user logged a workout in [start, end).
func (r *WorkoutRepository) ExistsBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workouts WHERE user_id = $1 AND date >= $2 AND date < $3)
	`, userID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check workouts: %w", err)
	}
	return exists, nil
}

func (r *WorkoutRepository) query(ctx context.Context, sql string, args ...any) ([]workout.Workout, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	out := []workout.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func scanWorkout(row pgx.Row) (*workout.Workout, error) {
	w := &workout.Workout{}
	err := row.Scan(&w.ID, &w.UserID, &w.Type, &w.Duration, &w.Calories, &w.Date, &w.Image, &w.Notes, &w.CreatedAt)
	return w, err
}
