package handlers

import (
	"context"
	"net/http"

	"fitStreakAPI/internal/types/notification"
	"fitStreakAPI/middleware"
	"fitStreakAPI/services"
)

type NotificationHandler struct {
	pushService *services.PushService
}

func NewNotificationHandler(pushService *services.PushService) *NotificationHandler {
	return &NotificationHandler{pushService: pushService}
}

// POST /api/notifications/register-device
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req notification.RegisterDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.pushService.RegisterDevice(ctx, clerkID, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device registered"})
}
