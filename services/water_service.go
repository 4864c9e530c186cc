package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/lock"
	"fitStreakAPI/internal/types/water"
	"fitStreakAPI/utils"
)

const waterListLimit = 30

type WaterStore interface {
	FindBetween(ctx context.Context, userID string, start, end time.Time) (*water.Intake, error)
	Create(ctx context.Context, w *water.Intake) error
	UpdateGlasses(ctx context.Context, id uuid.UUID, glasses int) error
	List(ctx context.Context, userID string, limit int) ([]water.Intake, error)
	ListBetween(ctx context.Context, userID string, start, end time.Time) ([]water.Intake, error)
}

type WaterService struct {
	store   WaterStore
	tracker ActivityTracker
	locker  lock.Locker
	loc     *time.Location
	now     func() time.Time
}

func NewWaterService(store WaterStore, tracker ActivityTracker, locker lock.Locker, loc *time.Location) *WaterService {
	if loc == nil {
		loc = time.Local
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &WaterService{store: store, tracker: tracker, locker: locker, loc: loc, now: time.Now}
}

func (s *WaterService) List(ctx context.Context, userID string) ([]water.Intake, error) {
	return s.store.List(ctx, userID, waterListLimit)
}

func (s *WaterService) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]water.Intake, error) {
	return s.store.ListBetween(ctx, userID, start, end)
}

// Today returns today's record, or a zero-glass placeholder that is not persisted.
func (s *WaterService) Today(ctx context.Context, userID string) (*water.Intake, error) {
	now := s.now()
	start, end := utils.DayBounds(now, s.loc)

	w, err := s.store.FindBetween(ctx, userID, start, end)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &water.Intake{UserID: userID, Glasses: 0, Date: now}, nil
		}
		return nil, err
	}
	return w, nil
}

// SetToday overwrites today's glass count, creating the record if needed.
func (s *WaterService) SetToday(ctx context.Context, userID string, glasses int) (*water.Intake, error) {
	if glasses < 0 || glasses > water.MaxGlasses {
		return nil, common.ErrInvalidGlasses
	}
	w, err := s.upsertToday(ctx, userID, func(int) int { return glasses })
	if err != nil {
		return nil, err
	}
	s.tracker.TrackActivity(ctx, userID, DomainWater)
	return w, nil
}

// AddGlass adds one glass to today's record, capped at water.MaxGlasses.
func (s *WaterService) AddGlass(ctx context.Context, userID string) (*water.Intake, error) {
	w, err := s.upsertToday(ctx, userID, func(current int) int {
		return min(current+1, water.MaxGlasses)
	})
	if err != nil {
		return nil, err
	}
	s.tracker.TrackActivity(ctx, userID, DomainWater)
	return w, nil
}

func (s *WaterService) upsertToday(ctx context.Context, userID string, next func(current int) int) (*water.Intake, error) {
	unlock, err := s.locker.Lock(ctx, "water:"+userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	start, end := utils.DayBounds(now, s.loc)

	w, err := s.store.FindBetween(ctx, userID, start, end)
	switch {
	case err == nil:
		w.Glasses = next(w.Glasses)
		if err := s.store.UpdateGlasses(ctx, w.ID, w.Glasses); err != nil {
			return nil, err
		}
		return w, nil
	case errors.Is(err, common.ErrNotFound):
		w = &water.Intake{
			ID:      uuid.New(),
			UserID:  userID,
			Glasses: next(0),
			Date:    now,
		}
		if err := s.store.Create(ctx, w); err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, err
	}
}

// Weekly summarizes the records logged in the last seven days.
func (s *WaterService) Weekly(ctx context.Context, userID string) (*water.WeeklyStats, error) {
	now := s.now()
	records, err := s.store.ListBetween(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}

	stats := &water.WeeklyStats{
		DaysWithWater: len(records),
		WeeklyData:    records,
	}
	for _, r := range records {
		stats.TotalGlasses += r.Glasses
	}
	if len(records) > 0 {
		avg := float64(stats.TotalGlasses) / float64(len(records))
		stats.AverageGlasses = math.Round(avg*10) / 10
	}
	return stats, nil
}
