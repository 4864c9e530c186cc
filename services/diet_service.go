package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitStreakAPI/internal/types/meal"
	"fitStreakAPI/utils"
)

const mealListLimit = 50

type MealStore interface {
	Create(ctx context.Context, m *meal.Meal) error
	Get(ctx context.Context, userID string, id uuid.UUID) (*meal.Meal, error)
	Update(ctx context.Context, m *meal.Meal) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	List(ctx context.Context, userID string, limit int) ([]meal.Meal, error)
	ListBetween(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error)
	ListOnDay(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error)
}

type DietService struct {
	store   MealStore
	tracker ActivityTracker
	loc     *time.Location
	now     func() time.Time
}

func NewDietService(store MealStore, tracker ActivityTracker, loc *time.Location) *DietService {
	if loc == nil {
		loc = time.Local
	}
	return &DietService{store: store, tracker: tracker, loc: loc, now: time.Now}
}

func (s *DietService) List(ctx context.Context, userID string) ([]meal.Meal, error) {
	return s.store.List(ctx, userID, mealListLimit)
}

func (s *DietService) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error) {
	return s.store.ListBetween(ctx, userID, start, end)
}

func (s *DietService) ListOnDate(ctx context.Context, userID string, day time.Time) ([]meal.Meal, error) {
	start, end := utils.DayBounds(day, s.loc)
	return s.store.ListOnDay(ctx, userID, start, end)
}

// Create saves the meal and then advances the diet streak. A supplied date
// only places the meal; the streak is always evaluated for today.
func (s *DietService) Create(ctx context.Context, userID string, req meal.CreateMealRequest) (*meal.Meal, error) {
	date := s.now()
	if req.Date != "" {
		parsed, err := utils.ParseDate(req.Date, s.loc)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	mealType := req.MealType
	if mealType == "" {
		mealType = meal.Breakfast
	}
	quantity := req.Quantity
	if quantity == "" {
		quantity = meal.DefaultQuantity
	}

	m := &meal.Meal{
		ID:       uuid.New(),
		UserID:   userID,
		FoodName: req.FoodName,
		Calories: *req.Calories,
		Date:     date,
		MealType: mealType,
		Image:    req.Image,
		Quantity: quantity,
	}

	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}

	s.tracker.TrackActivity(ctx, userID, DomainDiet)
	return m, nil
}

func (s *DietService) Update(ctx context.Context, userID string, id uuid.UUID, req meal.UpdateMealRequest) (*meal.Meal, error) {
	m, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.FoodName != nil {
		m.FoodName = *req.FoodName
	}
	if req.Calories != nil {
		m.Calories = *req.Calories
	}
	if req.MealType != nil {
		m.MealType = *req.MealType
	}
	if req.Image != nil {
		m.Image = *req.Image
	}
	if req.Quantity != nil {
		m.Quantity = *req.Quantity
	}

	if err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DietService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}

// Summary totals the meals logged on day's calendar date.
func (s *DietService) Summary(ctx context.Context, userID string, day time.Time) (*meal.DailySummary, error) {
	meals, err := s.ListOnDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	summary := &meal.DailySummary{
		MealCount: len(meals),
		MealsByType: map[string][]meal.Meal{
			meal.Breakfast: {},
			meal.Lunch:     {},
			meal.Dinner:    {},
			meal.Snack:     {},
		},
	}
	for _, m := range meals {
		summary.TotalCalories += m.Calories
		summary.MealsByType[m.MealType] = append(summary.MealsByType[m.MealType], m)
	}
	return summary, nil
}
