package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/lock"
	"fitStreakAPI/internal/testutil"
	"fitStreakAPI/internal/types/meal"
	"fitStreakAPI/internal/types/water"
	"fitStreakAPI/internal/types/workout"
)

type recordingTracker struct {
	mu    sync.Mutex
	calls []Domain
}

func (r *recordingTracker) TrackActivity(ctx context.Context, userID string, domain Domain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, domain)
}

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }

func TestWorkoutService_CreateTriggersWorkoutStreak(t *testing.T) {
	store := testutil.NewWorkoutStore()
	tr := &recordingTracker{}
	svc := NewWorkoutService(store, tr)

	w, err := svc.Create(context.Background(), testUser, workout.CreateWorkoutRequest{
		Type: "yoga", Duration: f64(45), Calories: f64(0), Notes: "morning flow",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.Equal(t, 0.0, w.Calories)
	assert.Equal(t, []Domain{DomainWorkout}, tr.calls)

	list, err := svc.List(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkoutService_CreateFailureSkipsStreak(t *testing.T) {
	store := testutil.NewWorkoutStore()
	store.Err = testutil.ErrStoreDown
	tr := &recordingTracker{}
	svc := NewWorkoutService(store, tr)

	_, err := svc.Create(context.Background(), testUser, workout.CreateWorkoutRequest{Type: "other", Duration: f64(10), Calories: f64(5)})
	assert.Error(t, err)
	assert.Empty(t, tr.calls)
}

func TestWorkoutService_UpdateAndDelete(t *testing.T) {
	store := testutil.NewWorkoutStore()
	svc := NewWorkoutService(store, &recordingTracker{})
	ctx := context.Background()

	w, err := svc.Create(ctx, testUser, workout.CreateWorkoutRequest{Type: "running", Duration: f64(30), Calories: f64(300)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, testUser, w.ID, workout.UpdateWorkoutRequest{Duration: f64(40), Notes: str("felt good")})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Duration)
	assert.Equal(t, "running", updated.Type)
	assert.Equal(t, "felt good", updated.Notes)

	_, err = svc.Update(ctx, "someone_else", w.ID, workout.UpdateWorkoutRequest{})
	assert.ErrorIs(t, err, common.ErrWorkoutNotFound)

	require.NoError(t, svc.Delete(ctx, testUser, w.ID))
	assert.ErrorIs(t, svc.Delete(ctx, testUser, w.ID), common.ErrWorkoutNotFound)
}

func TestDietService_CreateAppliesDefaults(t *testing.T) {
	store := testutil.NewMealStore()
	tr := &recordingTracker{}
	svc := NewDietService(store, tr, time.UTC)
	svc.now = func() time.Time { return day(10, 12, 0) }

	m, err := svc.Create(context.Background(), testUser, meal.CreateMealRequest{FoodName: "Salad", Calories: f64(250)})
	require.NoError(t, err)

	assert.Equal(t, meal.Breakfast, m.MealType)
	assert.Equal(t, "1 serving", m.Quantity)
	assert.True(t, m.Date.Equal(day(10, 12, 0)))
	assert.Equal(t, []Domain{DomainDiet}, tr.calls)
}

func TestDietService_CreateWithPlannedDate(t *testing.T) {
	store := testutil.NewMealStore()
	svc := NewDietService(store, &recordingTracker{}, time.UTC)

	m, err := svc.Create(context.Background(), testUser, meal.CreateMealRequest{
		FoodName: "Pasta", Calories: f64(600), MealType: meal.Dinner, Date: "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), m.Date)

	_, err = svc.Create(context.Background(), testUser, meal.CreateMealRequest{FoodName: "x", Calories: f64(1), Date: "someday"})
	assert.Error(t, err)
}

func TestDietService_Summary(t *testing.T) {
	store := testutil.NewMealStore()
	svc := NewDietService(store, &recordingTracker{}, time.UTC)
	ctx := context.Background()

	for _, m := range []meal.Meal{
		{UserID: testUser, FoodName: "Eggs", Calories: 200, MealType: meal.Breakfast, Date: day(10, 8, 0)},
		{UserID: testUser, FoodName: "Soup", Calories: 350.5, MealType: meal.Lunch, Date: day(10, 13, 0)},
		{UserID: testUser, FoodName: "Chips", Calories: 150, MealType: meal.Snack, Date: day(10, 16, 0)},
		{UserID: testUser, FoodName: "Steak", Calories: 800, MealType: meal.Dinner, Date: day(11, 19, 0)},
	} {
		m := m
		require.NoError(t, store.Create(ctx, &m))
	}

	summary, err := svc.Summary(ctx, testUser, day(10, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.MealCount)
	assert.InDelta(t, 700.5, summary.TotalCalories, 0.001)
	assert.Len(t, summary.MealsByType[meal.Breakfast], 1)
	assert.Len(t, summary.MealsByType[meal.Lunch], 1)
	assert.Len(t, summary.MealsByType[meal.Snack], 1)
	assert.NotNil(t, summary.MealsByType[meal.Dinner])
	assert.Empty(t, summary.MealsByType[meal.Dinner])
}

func newWaterService(t *testing.T) (*WaterService, *testutil.WaterStore, *recordingTracker) {
	t.Helper()
	store := testutil.NewWaterStore()
	tr := &recordingTracker{}
	svc := NewWaterService(store, tr, lock.NewKeyedMutex(), time.UTC)
	svc.now = func() time.Time { return day(10, 12, 0) }
	return svc, store, tr
}

func TestWaterService_TodayPlaceholder(t *testing.T) {
	svc, _, _ := newWaterService(t)

	w, err := svc.Today(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Glasses)
	assert.Equal(t, uuid.Nil, w.ID)
}

func TestWaterService_SetTodayUpserts(t *testing.T) {
	svc, store, tr := newWaterService(t)
	ctx := context.Background()

	first, err := svc.SetToday(ctx, testUser, 3)
	require.NoError(t, err)
	second, err := svc.SetToday(ctx, testUser, 6)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	list, _ := store.List(ctx, testUser, 30)
	require.Len(t, list, 1)
	assert.Equal(t, 6, list[0].Glasses)
	assert.Equal(t, []Domain{DomainWater, DomainWater}, tr.calls)

	_, err = svc.SetToday(ctx, testUser, 21)
	assert.ErrorIs(t, err, common.ErrInvalidGlasses)
	_, err = svc.SetToday(ctx, testUser, -1)
	assert.ErrorIs(t, err, common.ErrInvalidGlasses)
}

func TestWaterService_AddGlassCapsAtMax(t *testing.T) {
	svc, _, tr := newWaterService(t)
	ctx := context.Background()

	w, err := svc.AddGlass(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Glasses)

	_, err = svc.SetToday(ctx, testUser, water.MaxGlasses)
	require.NoError(t, err)

	w, err = svc.AddGlass(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, water.MaxGlasses, w.Glasses)
	assert.Len(t, tr.calls, 3)
}

func TestWaterService_ConcurrentAddGlass(t *testing.T) {
	svc, store, _ := newWaterService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddGlass(ctx, testUser)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, _ := store.List(ctx, testUser, 30)
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].Glasses)
}

func TestWaterService_Weekly(t *testing.T) {
	svc, store, _ := newWaterService(t)
	ctx := context.Background()

	for _, w := range []water.Intake{
		{UserID: testUser, Glasses: 8, Date: day(4, 12, 0)},
		{UserID: testUser, Glasses: 5, Date: day(7, 12, 0)},
		{UserID: testUser, Glasses: 4, Date: day(9, 12, 0)},
		{UserID: testUser, Glasses: 10, Date: day(1, 12, 0)},
	} {
		w := w
		require.NoError(t, store.Create(ctx, &w))
	}

	stats, err := svc.Weekly(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, 17, stats.TotalGlasses)
	assert.Equal(t, 3, stats.DaysWithWater)
	assert.Equal(t, 5.7, stats.AverageGlasses)
	require.Len(t, stats.WeeklyData, 3)
	assert.True(t, stats.WeeklyData[0].Date.Before(stats.WeeklyData[2].Date))
}

func TestWaterService_WeeklyEmpty(t *testing.T) {
	svc, _, _ := newWaterService(t)

	stats, err := svc.Weekly(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageGlasses)
	assert.Empty(t, stats.WeeklyData)
}

// The real tracker wired end to end: logging four glasses starts a water streak.
func TestWaterService_EndToEndWithStreakService(t *testing.T) {
	f := newStreakFixture(t)
	svc := NewWaterService(f.water, f.svc, lock.NewKeyedMutex(), testLoc)
	svc.now = f.clock.Now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddGlass(ctx, testUser)
		require.NoError(t, err)
	}
	_, ok := f.streaks.Peek(testUser)
	assert.False(t, ok)

	_, err := svc.AddGlass(ctx, testUser)
	require.NoError(t, err)

	rec, ok := f.streaks.Peek(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, rec.WaterStreak)
}
