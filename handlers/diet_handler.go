package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fitStreakAPI/internal/types/meal"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
	"fitStreakAPI/utils"
)

type DietHandler struct {
	dietService *services.DietService
	loc         *time.Location
}

func NewDietHandler(dietService *services.DietService, loc *time.Location) *DietHandler {
	return &DietHandler{dietService: dietService, loc: loc}
}

// GET /api/diet
func (h *DietHandler) GetMeals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	meals, err := h.dietService.List(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, meals)
}

// GET /api/diet/range?startDate=...&endDate=...
func (h *DietHandler) GetMealsInRange(w http.ResponseWriter, r *http.Request) {
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

	meals, err := h.dietService.ListBetween(ctx, clerkID, start, end)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, meals)
}

// GET /api/diet/date/{date}
func (h *DietHandler) GetMealsByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := utils.ParseDate(mux.Vars(r)["date"], h.loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format")
		return
	}

	meals, err := h.dietService.ListOnDate(ctx, clerkID, date)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, meals)
}

// GET /api/diet/summary/{date}
func (h *DietHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := utils.ParseDate(mux.Vars(r)["date"], h.loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format")
		return
	}

	summary, err := h.dietService.Summary(ctx, clerkID, date)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// POST /api/diet
func (h *DietHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req meal.CreateMealRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Calories == nil || *req.Calories < 0 {
		respondWithError(w, http.StatusBadRequest, "Calories must be a non-negative number")
		return
	}
	if req.Date != "" {
		if _, err := utils.ParseDate(req.Date, h.loc); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date format")
			return
		}
	}

	created, err := h.dietService.Create(ctx, clerkID, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/diet/{id}
func (h *DietHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Meal not found")
		return
	}

	var req meal.UpdateMealRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MealType != nil && !meal.ValidType(*req.MealType) {
		respondWithError(w, http.StatusBadRequest, "Invalid meal type")
		return
	}
	if req.Calories != nil && *req.Calories < 0 {
		respondWithError(w, http.StatusBadRequest, "Calories must be a non-negative number")
		return
	}

	updated, err := h.dietService.Update(ctx, clerkID, id, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/diet/{id}
func (h *DietHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Meal not found")
		return
	}

	if err := h.dietService.Delete(ctx, clerkID, id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Meal deleted successfully"})
}
