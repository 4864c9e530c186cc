package workout

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

var Types = []string{"cardio", "strength", "yoga", "running", "cycling", "swimming", "other"}

type Workout struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Duration  float64   `json:"duration" db:"duration"`
	Calories  float64   `json:"calories" db:"calories"`
	Date      time.Time `json:"date" db:"date"`
	Image     string    `json:"image" db:"image"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateWorkoutRequest carries numbers as pointers so a missing field
// can be told apart from zero.
type CreateWorkoutRequest struct {
	Type     string   `json:"type" validate:"required|in:cardio,strength,yoga,running,cycling,swimming,other"`
	Duration *float64 `json:"duration"`
	Calories *float64 `json:"calories"`
	Image    string   `json:"image"`
	Notes    string   `json:"notes"`
}

type UpdateWorkoutRequest struct {
	Type     *string  `json:"type"`
	Duration *float64 `json:"duration"`
	Calories *float64 `json:"calories"`
	Image    *string  `json:"image"`
	Notes    *string  `json:"notes"`
}

func ValidType(t string) bool {
	return slices.Contains(Types, t)
}
