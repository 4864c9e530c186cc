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
	"fitStreakAPI/internal/types/water"
)

const waterColumns = `id, user_id, glasses, date, created_at`

type WaterRepository struct {
	db *pgxpool.Pool
}

func NewWaterRepository(db *pgxpool.Pool) *WaterRepository {
	return &WaterRepository{db: db}
}

// FindBetween returns the first record in [start, end) or common.ErrNotFound.
func (r *WaterRepository) FindBetween(ctx context.Context, userID string, start, end time.Time) (*water.Intake, error) {
	row := r.db.QueryRow(ctx, `SELECT `+waterColumns+` FROM water_intake
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC LIMIT 1`, userID, start, end)
	w, err := scanWater(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get water intake: %w", err)
	}
	return w, nil
}

func (r *WaterRepository) Create(ctx context.Context, w *water.Intake) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO water_intake (id, user_id, glasses, date)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, w.ID, w.UserID, w.Glasses, w.Date).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create water intake: %w", err)
	}
	return nil
}

func (r *WaterRepository) UpdateGlasses(ctx context.Context, id uuid.UUID, glasses int) error {
	tag, err := r.db.Exec(ctx, `UPDATE water_intake SET glasses = $2 WHERE id = $1`, id, glasses)
	if err != nil {
		return fmt.Errorf("failed to update water intake: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *WaterRepository) List(ctx context.Context, userID string, limit int) ([]water.Intake, error) {
	return r.query(ctx, `SELECT `+waterColumns+` FROM water_intake
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
}

func (r *WaterRepository) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]water.Intake, error) {
	return r.query(ctx, `SELECT `+waterColumns+` FROM water_intake
		WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`, userID, start, end)
}

func (r *WaterRepository) query(ctx context.Context, sql string, args ...any) ([]water.Intake, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list water intake: %w", err)
	}
	defer rows.Close()

	out := []water.Intake{}
	for rows.Next() {
		w, err := scanWater(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan water intake: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func scanWater(row pgx.Row) (*water.Intake, error) {
	w := &water.Intake{}
	err := row.Scan(&w.ID, &w.UserID, &w.Glasses, &w.Date, &w.CreatedAt)
	return w, err
}
