package meal

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Dinner    = "dinner"
	Snack     = "snack"

	DefaultQuantity = "1 serving"
)

type Meal struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	FoodName  string    `json:"foodName" db:"food_name"`
	Calories  float64   `json:"calories" db:"calories"`
	Date      time.Time `json:"date" db:"date"`
	MealType  string    `json:"mealType" db:"meal_type"`
	Image     string    `json:"image" db:"image"`
	Quantity  string    `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateMealRequest struct {
	FoodName string   `json:"foodName" validate:"required"`
	Calories *float64 `json:"calories"`
	MealType string   `json:"mealType" validate:"in:breakfast,lunch,dinner,snack"`
	Image    string   `json:"image"`
	Quantity string   `json:"quantity"`
	Date     string   `json:"date"`
}

type UpdateMealRequest struct {
	FoodName *string  `json:"foodName"`
	Calories *float64 `json:"calories"`
	MealType *string  `json:"mealType"`
	Image    *string  `json:"image"`
	Quantity *string  `json:"quantity"`
}

var Types = []string{Breakfast, Lunch, Dinner, Snack}

func ValidType(t string) bool {
	return slices.Contains(Types, t)
}

type DailySummary struct {
	TotalCalories float64           `json:"totalCalories"`
	MealCount     int               `json:"mealCount"`
	MealsByType   map[string][]Meal `json:"mealsByType"`
}
