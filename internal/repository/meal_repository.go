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
	"fitStreakAPI/internal/types/meal"
)

const mealColumns = `id, user_id, food_name, calories, date, meal_type, image, quantity, created_at`

type MealRepository struct {
	db *pgxpool.Pool
}

func NewMealRepository(db *pgxpool.Pool) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, m *meal.Meal) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO meals (id, user_id, food_name, calories, date, meal_type, image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, m.ID, m.UserID, m.FoodName, m.Calories, m.Date, m.MealType, m.Image, m.Quantity).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*meal.Meal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	m, err := scanMeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return m, nil
}

func (r *MealRepository) Update(ctx context.Context, m *meal.Meal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE meals SET food_name = $3, calories = $4, meal_type = $5, image = $6, quantity = $7
		WHERE id = $1 AND user_id = $2
	`, m.ID, m.UserID, m.FoodName, m.Calories, m.MealType, m.Image, m.Quantity)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrMealNotFound
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrMealNotFound
	}
	return nil
}

func (r *MealRepository) List(ctx context.Context, userID string, limit int) ([]meal.Meal, error) {
	return r.query(ctx, `SELECT `+mealColumns+` FROM meals
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
}

func (r *MealRepository) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error) {
	return r.query(ctx, `SELECT `+mealColumns+` FROM meals
		WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC`, userID, start, end)
}

// ListOnDay returns meals in [start, end), oldest first.
func (r *MealRepository) ListOnDay(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error) {
	return r.query(ctx, `SELECT `+mealColumns+` FROM meals
		WHERE user_id = $1 AND date >= $2 AND date < $3 ORDER BY date ASC`, userID, start, end)
}

func (r *MealRepository) ExistsBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM meals WHERE user_id = $1 AND date >= $2 AND date < $3)
	`, userID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check meals: %w", err)
	}
	return exists, nil
}

func (r *MealRepository) query(ctx context.Context, sql string, args ...any) ([]meal.Meal, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	out := []meal.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMeal(row pgx.Row) (*meal.Meal, error) {
	m := &meal.Meal{}
	err := row.Scan(&m.ID, &m.UserID, &m.FoodName, &m.Calories, &m.Date, &m.MealType, &m.Image, &m.Quantity, &m.CreatedAt)
	return m, err
}
