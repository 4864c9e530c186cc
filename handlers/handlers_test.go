package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitStreakAPI/internal/badge"
	"fitStreakAPI/internal/lock"
	"fitStreakAPI/internal/testutil"
	"fitStreakAPI/internal/types/streak"
	"fitStreakAPI/internal/types/workout"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
)

const testUser = "user_test"

type testEnv struct {
	streaks  *testutil.StreakStore
	workouts *testutil.WorkoutStore
	meals    *testutil.MealStore
	water    *testutil.WaterStore
	devices  *testutil.DeviceStore

	streakHandler       *StreakHandler
	workoutHandler      *WorkoutHandler
	dietHandler         *DietHandler
	waterHandler        *WaterHandler
	notificationHandler *NotificationHandler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		streaks:  testutil.NewStreakStore(),
		workouts: testutil.NewWorkoutStore(),
		meals:    testutil.NewMealStore(),
		water:    testutil.NewWaterStore(),
		devices:  testutil.NewDeviceStore(),
	}
	locker := lock.NewKeyedMutex()
	loc := time.Local

	streakService := services.NewStreakService(env.streaks, env.workouts, env.meals, env.water, locker, loc)
	pushService := services.NewPushService(env.devices)

	env.streakHandler = NewStreakHandler(streakService)
	env.workoutHandler = NewWorkoutHandler(services.NewWorkoutService(env.workouts, streakService), loc)
	env.dietHandler = NewDietHandler(services.NewDietService(env.meals, streakService, loc), loc)
	env.waterHandler = NewWaterHandler(services.NewWaterService(env.water, streakService, locker, loc), loc)
	env.notificationHandler = NewNotificationHandler(pushService)
	return env
}

func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, testUser)
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rr, &body)
	return body["message"]
}

func TestHandlers_RequireAuthentication(t *testing.T) {
	env := newTestEnv()
	unauthenticated := httptest.NewRequest(http.MethodGet, "/api/streaks", nil)

	rr := httptest.NewRecorder()
	env.streakHandler.GetStreaks(rr, unauthenticated)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "User not authenticated", messageOf(t, rr))
}

func TestGetStreaks_CreatesRecord(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.streakHandler.GetStreaks(rr, newRequest(http.MethodGet, "/api/streaks", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var rec streak.Streak
	decodeBody(t, rr, &rec)
	assert.Equal(t, testUser, rec.UserID)
	assert.Zero(t, rec.WorkoutStreak)
	assert.Empty(t, rec.Badges)

	_, stored := env.streaks.Peek(testUser)
	assert.True(t, stored)
}

func TestCreateWorkout_AdvancesStreak(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.workoutHandler.CreateWorkout(rr, newRequest(http.MethodPost, "/api/workouts", map[string]any{
		"type":     "running",
		"duration": 30,
		"calories": 250,
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var created workout.Workout
	decodeBody(t, rr, &created)
	assert.Equal(t, "running", created.Type)

	rec, ok := env.streaks.Peek(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, rec.WorkoutStreak)
	assert.NotNil(t, rec.LastWorkoutDate)
}

func TestCreateWorkout_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing type", map[string]any{"duration": 30, "calories": 100}},
		{"unknown type", map[string]any{"type": "chess", "duration": 30, "calories": 100}},
		{"missing duration", map[string]any{"type": "yoga", "calories": 100}},
		{"zero duration", map[string]any{"type": "yoga", "duration": 0, "calories": 100}},
		{"negative calories", map[string]any{"type": "yoga", "duration": 20, "calories": -5}},
		{"missing calories", map[string]any{"type": "yoga", "duration": 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			rr := httptest.NewRecorder()
			env.workoutHandler.CreateWorkout(rr, newRequest(http.MethodPost, "/api/workouts", tt.body))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			_, ok := env.streaks.Peek(testUser)
			assert.False(t, ok)
		})
	}
}

func TestCreateWorkout_NonNumericDuration(t *testing.T) {
	env := newTestEnv()
	rr := httptest.NewRecorder()
	env.workoutHandler.CreateWorkout(rr, newRequest(http.MethodPost, "/api/workouts", map[string]any{
		"type":     "yoga",
		"duration": "thirty",
		"calories": 100,
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateAndDeleteWorkout_NotFound(t *testing.T) {
	env := newTestEnv()
	id := "0b7a4f5e-3c55-4a8c-9b2f-6d1b1f1e9e01"

	rr := httptest.NewRecorder()
	req := mux.SetURLVars(newRequest(http.MethodPut, "/api/workouts/"+id, map[string]any{"notes": "x"}), map[string]string{"id": id})
	env.workoutHandler.UpdateWorkout(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Workout not found", messageOf(t, rr))

	rr = httptest.NewRecorder()
	req = mux.SetURLVars(newRequest(http.MethodDelete, "/api/workouts/"+id, nil), map[string]string{"id": id})
	env.workoutHandler.DeleteWorkout(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWorkoutLifecycle(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.workoutHandler.CreateWorkout(rr, newRequest(http.MethodPost, "/api/workouts", map[string]any{
		"type": "cycling", "duration": 45, "calories": 400,
	}))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created workout.Workout
	decodeBody(t, rr, &created)
	id := created.ID.String()

	rr = httptest.NewRecorder()
	req := mux.SetURLVars(newRequest(http.MethodPut, "/api/workouts/"+id, map[string]any{"type": "swimming"}), map[string]string{"id": id})
	env.workoutHandler.UpdateWorkout(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated workout.Workout
	decodeBody(t, rr, &updated)
	assert.Equal(t, "swimming", updated.Type)
	assert.Equal(t, 45.0, updated.Duration)

	rr = httptest.NewRecorder()
	req = mux.SetURLVars(newRequest(http.MethodPut, "/api/workouts/"+id, map[string]any{"type": "darts"}), map[string]string{"id": id})
	env.workoutHandler.UpdateWorkout(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	req = mux.SetURLVars(newRequest(http.MethodDelete, "/api/workouts/"+id, nil), map[string]string{"id": id})
	env.workoutHandler.DeleteWorkout(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Workout deleted successfully", messageOf(t, rr))

	rr = httptest.NewRecorder()
	env.workoutHandler.GetWorkouts(rr, newRequest(http.MethodGet, "/api/workouts", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []workout.Workout
	decodeBody(t, rr, &list)
	assert.Empty(t, list)
}

func TestGetWorkoutsInRange_RequiresDates(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.workoutHandler.GetWorkoutsInRange(rr, newRequest(http.MethodGet, "/api/workouts/range?startDate=2024-03-01", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Start date and end date are required", messageOf(t, rr))

	rr = httptest.NewRecorder()
	env.workoutHandler.GetWorkoutsInRange(rr, newRequest(http.MethodGet, "/api/workouts/range?startDate=yesterday&endDate=today", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	env.workoutHandler.GetWorkoutsInRange(rr, newRequest(http.MethodGet, "/api/workouts/range?startDate=2024-03-01&endDate=2024-03-07", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateMeal_DefaultsAndStreak(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.dietHandler.CreateMeal(rr, newRequest(http.MethodPost, "/api/diet", map[string]any{
		"foodName": "Oatmeal",
		"calories": 0,
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var created map[string]any
	decodeBody(t, rr, &created)
	assert.Equal(t, "breakfast", created["mealType"])
	assert.Equal(t, "1 serving", created["quantity"])

	rec, ok := env.streaks.Peek(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, rec.DietStreak)
}

func TestCreateMeal_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing food name", map[string]any{"calories": 100}},
		{"bad meal type", map[string]any{"foodName": "Soup", "calories": 100, "mealType": "brunch"}},
		{"negative calories", map[string]any{"foodName": "Soup", "calories": -1}},
		{"bad date", map[string]any{"foodName": "Soup", "calories": 10, "date": "next tuesday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			rr := httptest.NewRecorder()
			env.dietHandler.CreateMeal(rr, newRequest(http.MethodPost, "/api/diet", tt.body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestGetSummary(t *testing.T) {
	env := newTestEnv()
	today := time.Now().Format("2006-01-02")

	for _, body := range []map[string]any{
		{"foodName": "Eggs", "calories": 200, "mealType": "breakfast"},
		{"foodName": "Salad", "calories": 350, "mealType": "lunch"},
	} {
		rr := httptest.NewRecorder()
		env.dietHandler.CreateMeal(rr, newRequest(http.MethodPost, "/api/diet", body))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := httptest.NewRecorder()
	req := mux.SetURLVars(newRequest(http.MethodGet, "/api/diet/summary/"+today, nil), map[string]string{"date": today})
	env.dietHandler.GetSummary(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var summary struct {
		TotalCalories float64                    `json:"totalCalories"`
		MealCount     int                        `json:"mealCount"`
		MealsByType   map[string][]map[string]any `json:"mealsByType"`
	}
	decodeBody(t, rr, &summary)
	assert.Equal(t, 550.0, summary.TotalCalories)
	assert.Equal(t, 2, summary.MealCount)
	assert.Len(t, summary.MealsByType, 4)
	assert.Len(t, summary.MealsByType["lunch"], 1)

	rr = httptest.NewRecorder()
	req = mux.SetURLVars(newRequest(http.MethodGet, "/api/diet/summary/bogus", nil), map[string]string{"date": "bogus"})
	env.dietHandler.GetSummary(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWater_SetAndAddGlass(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.waterHandler.SetWater(rr, newRequest(http.MethodPost, "/api/water", map[string]any{"glasses": 3}))
	require.Equal(t, http.StatusOK, rr.Code)
	_, ok := env.streaks.Peek(testUser)
	assert.False(t, ok, "three glasses must not start a water streak")

	rr = httptest.NewRecorder()
	env.waterHandler.AddGlass(rr, newRequest(http.MethodPost, "/api/water/add-glass", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var intake map[string]any
	decodeBody(t, rr, &intake)
	assert.EqualValues(t, 4, intake["glasses"])

	rec, ok := env.streaks.Peek(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, rec.WaterStreak)
}

func TestWater_SetValidation(t *testing.T) {
	env := newTestEnv()

	for _, body := range []map[string]any{{}, {"glasses": -1}, {"glasses": 21}} {
		rr := httptest.NewRecorder()
		env.waterHandler.SetWater(rr, newRequest(http.MethodPost, "/api/water", body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestWater_TodayPlaceholder(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.waterHandler.GetTodayWater(rr, newRequest(http.MethodGet, "/api/water/today", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var intake map[string]any
	decodeBody(t, rr, &intake)
	assert.EqualValues(t, 0, intake["glasses"])
}

func TestAddBadge(t *testing.T) {
	env := newTestEnv()
	body := map[string]any{"name": "Early Bird", "description": "Logged before 6am", "image": "🐦"}

	rr := httptest.NewRecorder()
	env.streakHandler.AddBadge(rr, newRequest(http.MethodPost, "/api/streaks/badge", body))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	env.streakHandler.AddBadge(rr, newRequest(http.MethodPost, "/api/streaks/badge", body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Badge already exists", messageOf(t, rr))

	rr = httptest.NewRecorder()
	env.streakHandler.AddBadge(rr, newRequest(http.MethodPost, "/api/streaks/badge", map[string]any{"name": "Only name"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Name, description, and image are required", messageOf(t, rr))
}

func TestUpdateStreaks_RejectsNegative(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.streakHandler.UpdateStreaks(rr, newRequest(http.MethodPut, "/api/streaks/update", map[string]any{"workoutStreak": -2}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	env.streakHandler.UpdateStreaks(rr, newRequest(http.MethodPut, "/api/streaks/update", map[string]any{"workoutStreak": 7}))
	require.Equal(t, http.StatusOK, rr.Code)
	var rec streak.Streak
	decodeBody(t, rr, &rec)
	assert.Equal(t, 7, rec.WorkoutStreak)
}

func TestCheckBadges(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.streakHandler.CheckBadges(rr, newRequest(http.MethodPost, "/api/streaks/check-badges", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "No streaks found", messageOf(t, rr))

	rec := streak.New(testUser)
	rec.WorkoutStreak = 7
	rec.WaterStreak = 7
	env.streaks.Put(rec)

	rr = httptest.NewRecorder()
	env.streakHandler.CheckBadges(rr, newRequest(http.MethodPost, "/api/streaks/check-badges", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var result streak.BadgeCheckResult
	decodeBody(t, rr, &result)
	assert.Equal(t, []string{badge.WeekWarrior, badge.HydrationHero}, result.NewBadges)
	require.NotNil(t, result.Streak)
	assert.Len(t, result.Streak.Badges, 2)
}

func TestGetAvailableBadges(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.streakHandler.GetAvailableBadges(rr, newRequest(http.MethodGet, "/api/streaks/available-badges", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var defs []map[string]any
	decodeBody(t, rr, &defs)
	require.Len(t, defs, 6)
	assert.Equal(t, badge.FirstWorkout, defs[0]["name"])
	assert.Equal(t, badge.CalorieCounter, defs[5]["name"])
}

func TestRegisterDevice(t *testing.T) {
	env := newTestEnv()

	rr := httptest.NewRecorder()
	env.notificationHandler.RegisterDevice(rr, newRequest(http.MethodPost, "/api/notifications/register-device", map[string]any{
		"token": "fcm-token", "platform": "ios",
	}))
	require.Equal(t, http.StatusOK, rr.Code)

	tokens, err := env.devices.ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "fcm-token", tokens[0].Token)

	rr = httptest.NewRecorder()
	env.notificationHandler.RegisterDevice(rr, newRequest(http.MethodPost, "/api/notifications/register-device", map[string]any{
		"token": "fcm-token", "platform": "blackberry",
	}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
