package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitStreakAPI/internal/types/workout"
)

const workoutListLimit = 50

type WorkoutStore interface {
	Create(ctx context.Context, w *workout.Workout) error
	Get(ctx context.Context, userID string, id uuid.UUID) (*workout.Workout, error)
	Update(ctx context.Context, w *workout.Workout) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	List(ctx context.Context, userID string, limit int) ([]workout.Workout, error)
	ListBetween(ctx context.Context, userID string, start, end time.Time) ([]workout.Workout, error)
}

type WorkoutService struct {
	store   WorkoutStore
	tracker ActivityTracker
	now     func() time.Time
}

func NewWorkoutService(store WorkoutStore, tracker ActivityTracker) *WorkoutService {
	return &WorkoutService{store: store, tracker: tracker, now: time.Now}
}

func (s *WorkoutService) List(ctx context.Context, userID string) ([]workout.Workout, error) {
	return s.store.List(ctx, userID, workoutListLimit)
}

func (s *WorkoutService) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]workout.Workout, error) {
	return s.store.ListBetween(ctx, userID, start, end)
}

// Create saves the workout and then advances the workout streak.
func (s *WorkoutService) Create(ctx context.Context, userID string, req workout.CreateWorkoutRequest) (*workout.Workout, error) {
	w := &workout.Workout{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     req.Type,
		Duration: *req.Duration,
		Calories: *req.Calories,
		Date:     s.now(),
		Image:    req.Image,
		Notes:    req.Notes,
	}

	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}

	s.tracker.TrackActivity(ctx, userID, DomainWorkout)
	return w, nil
}

func (s *WorkoutService) Update(ctx context.Context, userID string, id uuid.UUID, req workout.UpdateWorkoutRequest) (*workout.Workout, error) {
	w, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		w.Type = *req.Type
	}
	if req.Duration != nil {
		w.Duration = *req.Duration
	}
	if req.Calories != nil {
		w.Calories = *req.Calories
	}
	if req.Image != nil {
		w.Image = *req.Image
	}
	if req.Notes != nil {
		w.Notes = *req.Notes
	}

	if err := s.store.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}
