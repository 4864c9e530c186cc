package handlers

import (
	"context"
	"net/http"

	"fitStreakAPI/internal/types/streak"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

// GET /api/streaks
func (h *StreakHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rec, err := h.streakService.GetStreaks(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}

// PUT /api/streaks/update
func (h *StreakHandler) UpdateStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.UpdateCountersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.streakService.UpdateCounters(ctx, clerkID, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}

// POST /api/streaks/badge
func (h *StreakHandler) AddBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.AddBadgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.streakService.AddBadge(ctx, clerkID, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}

// GET /api/streaks/available-badges
func (h *StreakHandler) GetAvailableBadges(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.streakService.AvailableBadges())
}

// POST /api/streaks/check-badges
func (h *StreakHandler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.streakService.CheckBadges(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if result.Streak == nil {
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "No streaks found"})
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
