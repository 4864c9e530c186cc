package handlers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	log "github.com/sirupsen/logrus"

	"fitStreakAPI/internal/common"
)

var requestTimeout = 5 * time.Second

// SetRequestTimeout bounds how long a handler waits on the services.
func SetRequestTimeout(d time.Duration) {
	if d > 0 {
		requestTimeout = d
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

// respondWithServiceError maps known service errors to client responses.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrWorkoutNotFound):
		respondWithError(w, http.StatusNotFound, "Workout not found")
	case errors.Is(err, common.ErrMealNotFound):
		respondWithError(w, http.StatusNotFound, "Meal not found")
	case errors.Is(err, common.ErrBadgeExists):
		respondWithError(w, http.StatusBadRequest, "Badge already exists")
	case errors.Is(err, common.ErrBadgeFieldsRequired):
		respondWithError(w, http.StatusBadRequest, "Name, description, and image are required")
	case errors.Is(err, common.ErrNegativeStreak):
		respondWithError(w, http.StatusBadRequest, "Streak values cannot be negative")
	case errors.Is(err, common.ErrInvalidGlasses):
		respondWithError(w, http.StatusBadRequest, "Glasses must be between 0 and 20")
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// validateStruct runs the gookit `validate` tags and returns the first failure.
func validateStruct(req interface{}) error {
	v := validate.Struct(req)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}
	return nil
}
