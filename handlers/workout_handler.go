package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fitStreakAPI/internal/types/workout"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
	"fitStreakAPI/utils"
)

type WorkoutHandler struct {
	workoutService *services.WorkoutService
	loc            *time.Location
}

func NewWorkoutHandler(workoutService *services.WorkoutService, loc *time.Location) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, loc: loc}
}

// GET /api/workouts
func (h *WorkoutHandler) GetWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	workouts, err := h.workoutService.List(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, workouts)
}

// GET /api/workouts/range?startDate=...&endDate=...
func (h *WorkoutHandler) GetWorkoutsInRange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	start, end, ok := parseRangeQuery(w, r, h.loc)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListBetween(ctx, clerkID, start, end)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, workouts)
}

// POST /api/workouts
func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req workout.CreateWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Duration == nil || *req.Duration <= 0 {
		respondWithError(w, http.StatusBadRequest, "Duration must be a positive number")
		return
	}
	if req.Calories == nil || *req.Calories < 0 {
		respondWithError(w, http.StatusBadRequest, "Calories must be a non-negative number")
		return
	}

	created, err := h.workoutService.Create(ctx, clerkID, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/workouts/{id}
func (h *WorkoutHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	var req workout.UpdateWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type != nil && !workout.ValidType(*req.Type) {
		respondWithError(w, http.StatusBadRequest, "Invalid workout type")
		return
	}
	if req.Duration != nil && *req.Duration <= 0 {
		respondWithError(w, http.StatusBadRequest, "Duration must be a positive number")
		return
	}
	if req.Calories != nil && *req.Calories < 0 {
		respondWithError(w, http.StatusBadRequest, "Calories must be a non-negative number")
		return
	}

	updated, err := h.workoutService.Update(ctx, clerkID, id, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/workouts/{id}
func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	if err := h.workoutService.Delete(ctx, clerkID, id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Workout deleted successfully"})
}

// parseRangeQuery writes a 400 and returns false when the range is unusable.
func parseRangeQuery(w http.ResponseWriter, r *http.Request, loc *time.Location) (time.Time, time.Time, bool) {
	startValue := r.URL.Query().Get("startDate")
	endValue := r.URL.Query().Get("endDate")
	if startValue == "" || endValue == "" {
		respondWithError(w, http.StatusBadRequest, "Start date and end date are required")
		return time.Time{}, time.Time{}, false
	}

	start, end, err := utils.ParseRange(startValue, endValue, loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
