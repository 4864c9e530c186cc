package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fitStreakAPI/internal/badge"
	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/lock"
	"fitStreakAPI/internal/types/streak"
	"fitStreakAPI/internal/types/water"
	"fitStreakAPI/utils"
)

type Domain string

const (
	DomainWorkout Domain = "workout"
	DomainWater   Domain = "water"
	DomainDiet    Domain = "diet"
)

// MinWaterGlasses is the daily glass count that extends the water streak.
const MinWaterGlasses = 4

const defaultFollowUpTimeout = 5 * time.Second

type StreakStore interface {
	GetByUserID(ctx context.Context, userID string) (*streak.Streak, error)
	Create(ctx context.Context, userID string) (*streak.Streak, error)
	Save(ctx context.Context, s *streak.Streak) error
	ListActiveSince(ctx context.Context, since time.Time) ([]*streak.Streak, error)
}

// ActivityChecker reports whether any record exists in [start, end).
type ActivityChecker interface {
	ExistsBetween(ctx context.Context, userID string, start, end time.Time) (bool, error)
}

type WaterFinder interface {
	FindBetween(ctx context.Context, userID string, start, end time.Time) (*water.Intake, error)
}

type StreakNotifier interface {
	NotifyBadges(ctx context.Context, userID string, badges []streak.Badge) error
	NotifyStreakRisk(ctx context.Context, userID string, domains []Domain) error
}

// ActivityTracker is what activity services call after saving a record.
type ActivityTracker interface {
	TrackActivity(ctx context.Context, userID string, domain Domain)
}

type tracker struct {
	qualifies func(ctx context.Context, userID string, start, end time.Time) (bool, error)
	counter   func(s *streak.Streak) *int
	lastDate  func(s *streak.Streak) **time.Time
}

type StreakService struct {
	store    StreakStore
	locker   lock.Locker
	notifier StreakNotifier
	trackers map[Domain]tracker

	loc               *time.Location
	now               func() time.Time
	followUpTimeout   time.Duration
	reminderThreshold int
}

func NewStreakService(store StreakStore, workouts, meals ActivityChecker, waterLog WaterFinder, locker lock.Locker, loc *time.Location) *StreakService {
	if loc == nil {
		loc = time.Local
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}

	s := &StreakService{
		store:             store,
		locker:            locker,
		loc:               loc,
		now:               time.Now,
		followUpTimeout:   defaultFollowUpTimeout,
		reminderThreshold: 3,
	}

	s.trackers = map[Domain]tracker{
		DomainWorkout: {
			qualifies: workouts.ExistsBetween,
			counter:   func(r *streak.Streak) *int { return &r.WorkoutStreak },
			lastDate:  func(r *streak.Streak) **time.Time { return &r.LastWorkoutDate },
		},
		DomainDiet: {
			qualifies: meals.ExistsBetween,
			counter:   func(r *streak.Streak) *int { return &r.DietStreak },
			lastDate:  func(r *streak.Streak) **time.Time { return &r.LastDietDate },
		},
		DomainWater: {
			qualifies: func(ctx context.Context, userID string, start, end time.Time) (bool, error) {
				w, err := waterLog.FindBetween(ctx, userID, start, end)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						return false, nil
					}
					return false, err
				}
				return w.Glasses >= MinWaterGlasses, nil
			},
			counter:  func(r *streak.Streak) *int { return &r.WaterStreak },
			lastDate: func(r *streak.Streak) **time.Time { return &r.LastWaterDate },
		},
	}

	return s
}

func (s *StreakService) SetNotifier(n StreakNotifier) {
	s.notifier = n
}

func (s *StreakService) SetReminderThreshold(n int) {
	if n > 0 {
		s.reminderThreshold = n
	}
}

func (s *StreakService) clock() time.Time {
	return s.now().In(s.loc)
}

func lockKey(userID string) string {
	return "streak:" + userID
}

// RecordActivity re-evaluates one domain's streak for today.
// Nothing is written when the user has no qualifying record today.
func (s *StreakService) RecordActivity(ctx context.Context, userID string, domain Domain) error {
	t, ok := s.trackers[domain]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrInvalidDomain, domain)
	}

	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return err
	}
	defer unlock()

	rec, err := s.getOrNew(ctx, userID)
	if err != nil {
		return err
	}

	now := s.clock()
	start, end := utils.DayBounds(now, s.loc)

	qualifies, err := t.qualifies(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to check %s activity: %w", domain, err)
	}
	if !qualifies {
		return nil
	}

	advance(t.counter(rec), t.lastDate(rec), now, s.loc)

	if err := s.store.Save(ctx, rec); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"domain":  domain,
		"streak":  *t.counter(rec),
	}).Debug("Streak updated")
	return nil
}

// advance applies one qualifying day to a counter and stamps lastDate with now.
func advance(count *int, lastDate **time.Time, now time.Time, loc *time.Location) {
	today := utils.StartOfDay(now, loc)
	yesterday := today.AddDate(0, 0, -1)

	last := *lastDate
	switch {
	case last != nil && utils.StartOfDay(*last, loc).Equal(yesterday):
		*count++
	case last == nil || !utils.StartOfDay(*last, loc).Equal(today):
		*count = 1
	}

	stamp := now
	*lastDate = &stamp
}

// TrackActivity runs RecordActivity without letting its failure reach the caller.
func (s *StreakService) TrackActivity(ctx context.Context, userID string, domain Domain) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.followUpTimeout)
	defer cancel()

	if err := s.RecordActivity(ctx, userID, domain); err != nil {
		streakUpdatesTotal.WithLabelValues(string(domain), "error").Inc()
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"domain":  domain,
		}).Error("Failed to update streak")
		return
	}
	streakUpdatesTotal.WithLabelValues(string(domain), "ok").Inc()
}

func (s *StreakService) getOrNew(ctx context.Context, userID string) (*streak.Streak, error) {
	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrStreakNotFound) {
			return streak.New(userID), nil
		}
		return nil, err
	}
	if rec.Badges == nil {
		rec.Badges = []streak.Badge{}
	}
	return rec, nil
}

// GetStreaks returns the user's record, persisting an empty one on first access.
func (s *StreakService) GetStreaks(ctx context.Context, userID string) (*streak.Streak, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := s.store.GetByUserID(ctx, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, common.ErrStreakNotFound) {
		return nil, err
	}
	return s.store.Create(ctx, userID)
}

// UpdateCounters overwrites only the supplied counters.
func (s *StreakService) UpdateCounters(ctx context.Context, userID string, req streak.UpdateCountersRequest) (*streak.Streak, error) {
	for _, v := range []*int{req.WorkoutStreak, req.WaterStreak, req.DietStreak} {
		if v != nil && *v < 0 {
			return nil, common.ErrNegativeStreak
		}
	}

	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := s.getOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.WorkoutStreak != nil {
		rec.WorkoutStreak = *req.WorkoutStreak
	}
	if req.WaterStreak != nil {
		rec.WaterStreak = *req.WaterStreak
	}
	if req.DietStreak != nil {
		rec.DietStreak = *req.DietStreak
	}

	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AddBadge appends a caller-supplied badge. Names are unique per user.
func (s *StreakService) AddBadge(ctx context.Context, userID string, req streak.AddBadgeRequest) (*streak.Streak, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Image) == "" {
		return nil, common.ErrBadgeFieldsRequired
	}

	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := s.getOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}

	if rec.HasBadge(req.Name) {
		return nil, common.ErrBadgeExists
	}

	rec.Badges = append(rec.Badges, streak.Badge{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		EarnedDate:  s.clock(),
	})

	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	badgesAwardedTotal.WithLabelValues(req.Name, "manual").Inc()
	return rec, nil
}

// CheckBadges awards every streak badge whose threshold is met and not yet held.
// A user without a record gets an empty result with a nil Streak.
func (s *StreakService) CheckBadges(ctx context.Context, userID string) (*streak.BadgeCheckResult, error) {
	result, awarded, err := s.evaluateBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(awarded) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyBadges(ctx, userID, awarded); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to send badge notification")
		}
	}
	return result, nil
}

func (s *StreakService) evaluateBadges(ctx context.Context, userID string) (*streak.BadgeCheckResult, []streak.Badge, error) {
	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrStreakNotFound) {
			return &streak.BadgeCheckResult{NewBadges: []string{}}, nil, nil
		}
		return nil, nil, err
	}
	if rec.Badges == nil {
		rec.Badges = []streak.Badge{}
	}

	now := s.clock()
	var awarded []streak.Badge
	for _, def := range badge.StreakRules() {
		if !def.Met(rec) || rec.HasBadge(def.Name) {
			continue
		}
		b := def.Badge()
		b.EarnedDate = now
		rec.Badges = append(rec.Badges, b)
		awarded = append(awarded, b)
	}

	names := make([]string, 0, len(awarded))
	for _, b := range awarded {
		names = append(names, b.Name)
	}

	if len(awarded) > 0 {
		if err := s.store.Save(ctx, rec); err != nil {
			return nil, nil, err
		}
		for _, n := range names {
			badgesAwardedTotal.WithLabelValues(n, "streak").Inc()
		}
	}

	return &streak.BadgeCheckResult{NewBadges: names, Streak: rec}, awarded, nil
}

func (s *StreakService) AvailableBadges() []badge.Definition {
	return badge.Available()
}

// AtRiskDomains lists domains whose streak reached the threshold, was extended
// yesterday and has not been extended today.
func AtRiskDomains(rec *streak.Streak, now time.Time, loc *time.Location, threshold int) []Domain {
	yesterday := utils.StartOfDay(now, loc).AddDate(0, 0, -1)

	check := []struct {
		domain Domain
		count  int
		last   *time.Time
	}{
		{DomainWorkout, rec.WorkoutStreak, rec.LastWorkoutDate},
		{DomainWater, rec.WaterStreak, rec.LastWaterDate},
		{DomainDiet, rec.DietStreak, rec.LastDietDate},
	}

	var out []Domain
	for _, c := range check {
		if c.count < threshold || c.last == nil {
			continue
		}
		if utils.StartOfDay(*c.last, loc).Equal(yesterday) {
			out = append(out, c.domain)
		}
	}
	return out
}

// SendStreakReminders pushes one reminder to every user with a streak at risk.
// It returns how many users were notified.
func (s *StreakService) SendStreakReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	now := s.clock()
	yesterday := utils.StartOfDay(now, s.loc).AddDate(0, 0, -1)

	records, err := s.store.ListActiveSince(ctx, yesterday)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range records {
		domains := AtRiskDomains(rec, now, s.loc, s.reminderThreshold)
		if len(domains) == 0 {
			continue
		}
		if err := s.notifier.NotifyStreakRisk(ctx, rec.UserID, domains); err != nil {
			log.WithError(err).WithField("user_id", rec.UserID).Warn("Failed to send streak reminder")
			continue
		}
		sent++
	}
	return sent, nil
}
