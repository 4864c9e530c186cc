package handlers

import (
	"context"
	"net/http"
	"time"

	"fitStreakAPI/internal/types/water"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
)

type WaterHandler struct {
	waterService *services.WaterService
	loc          *time.Location
}

func NewWaterHandler(waterService *services.WaterService, loc *time.Location) *WaterHandler {
	return &WaterHandler{waterService: waterService, loc: loc}
}

// GET /api/water
func (h *WaterHandler) GetWaterIntake(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	records, err := h.waterService.List(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GET /api/water/range?startDate=...&endDate=...
func (h *WaterHandler) GetWaterInRange(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.waterService.ListBetween(ctx, clerkID, start, end)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GET /api/water/today
func (h *WaterHandler) GetTodayWater(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	today, err := h.waterService.Today(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, today)
}

// GET /api/water/weekly
func (h *WaterHandler) GetWeeklyWater(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.waterService.Weekly(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// POST /api/water
func (h *WaterHandler) SetWater(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req water.SetGlassesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Glasses == nil {
		respondWithError(w, http.StatusBadRequest, "Glasses must be between 0 and 20")
		return
	}

	intake, err := h.waterService.SetToday(ctx, clerkID, *req.Glasses)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, intake)
}

// POST /api/water/add-glass
func (h *WaterHandler) AddGlass(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	intake, err := h.waterService.AddGlass(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, intake)
}
