// Package testutil provides in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitStreakAPI/internal/common"
	"fitStreakAPI/internal/types/meal"
	"fitStreakAPI/internal/types/notification"
	"fitStreakAPI/internal/types/streak"
	"fitStreakAPI/internal/types/water"
	"fitStreakAPI/internal/types/workout"
)

// StreakStore keeps copies so callers cannot mutate stored state without Save.
type StreakStore struct {
	mu        sync.Mutex
	records   map[string]*streak.Streak
	SaveCalls int
	Err       error
}

func NewStreakStore() *StreakStore {
	return &StreakStore{records: make(map[string]*streak.Streak)}
}

func cloneStreak(s *streak.Streak) *streak.Streak {
	c := *s
	c.Badges = append([]streak.Badge{}, s.Badges...)
	for _, p := range []**time.Time{&c.LastWorkoutDate, &c.LastWaterDate, &c.LastDietDate} {
		if *p != nil {
			t := **p
			*p = &t
		}
	}
	return &c
}

func (m *StreakStore) GetByUserID(ctx context.Context, userID string) (*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.records[userID]
	if !ok {
		return nil, common.ErrStreakNotFound
	}
	return cloneStreak(s), nil
}

func (m *StreakStore) Create(ctx context.Context, userID string) (*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.records[userID]; !ok {
		s := streak.New(userID)
		s.CreatedAt = time.Now()
		s.UpdatedAt = s.CreatedAt
		m.records[userID] = s
	}
	return cloneStreak(m.records[userID]), nil
}

func (m *StreakStore) Save(ctx context.Context, s *streak.Streak) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.SaveCalls++
	s.UpdatedAt = time.Now()
	m.records[s.UserID] = cloneStreak(s)
	return nil
}

func (m *StreakStore) ListActiveSince(ctx context.Context, since time.Time) ([]*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*streak.Streak
	for _, s := range m.records {
		for _, d := range []*time.Time{s.LastWorkoutDate, s.LastWaterDate, s.LastDietDate} {
			if d != nil && !d.Before(since) {
				out = append(out, cloneStreak(s))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Put seeds a record directly.
func (m *StreakStore) Put(s *streak.Streak) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.UserID] = cloneStreak(s)
}

func (m *StreakStore) Peek(userID string) (*streak.Streak, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.records[userID]
	if !ok {
		return nil, false
	}
	return cloneStreak(s), true
}

type WorkoutStore struct {
	mu       sync.Mutex
	workouts []workout.Workout
	Err      error
}

func NewWorkoutStore() *WorkoutStore {
	return &WorkoutStore{}
}

func (m *WorkoutStore) Create(ctx context.Context, w *workout.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now()
	m.workouts = append(m.workouts, *w)
	return nil
}

func (m *WorkoutStore) Get(ctx context.Context, userID string, id uuid.UUID) (*workout.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workouts {
		if w.ID == id && w.UserID == userID {
			c := w
			return &c, nil
		}
	}
	return nil, common.ErrWorkoutNotFound
}

func (m *WorkoutStore) Update(ctx context.Context, w *workout.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.workouts {
		if m.workouts[i].ID == w.ID && m.workouts[i].UserID == w.UserID {
			m.workouts[i] = *w
			return nil
		}
	}
	return common.ErrWorkoutNotFound
}

func (m *WorkoutStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.workouts {
		if w.ID == id && w.UserID == userID {
			m.workouts = append(m.workouts[:i], m.workouts[i+1:]...)
			return nil
		}
	}
	return common.ErrWorkoutNotFound
}

func (m *WorkoutStore) List(ctx context.Context, userID string, limit int) ([]workout.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []workout.Workout{}
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *WorkoutStore) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]workout.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []workout.Workout{}
	for _, w := range m.workouts {
		if w.UserID == userID && !w.Date.Before(start) && !w.Date.After(end) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *WorkoutStore) ExistsBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, w := range m.workouts {
		if w.UserID == userID && !w.Date.Before(start) && w.Date.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

type MealStore struct {
	mu    sync.Mutex
	meals []meal.Meal
	Err   error
}

func NewMealStore() *MealStore {
	return &MealStore{}
}

func (m *MealStore) Create(ctx context.Context, ml *meal.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if ml.ID == uuid.Nil {
		ml.ID = uuid.New()
	}
	ml.CreatedAt = time.Now()
	m.meals = append(m.meals, *ml)
	return nil
}

func (m *MealStore) Get(ctx context.Context, userID string, id uuid.UUID) (*meal.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ml := range m.meals {
		if ml.ID == id && ml.UserID == userID {
			c := ml
			return &c, nil
		}
	}
	return nil, common.ErrMealNotFound
}

func (m *MealStore) Update(ctx context.Context, ml *meal.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.meals {
		if m.meals[i].ID == ml.ID && m.meals[i].UserID == ml.UserID {
			m.meals[i] = *ml
			return nil
		}
	}
	return common.ErrMealNotFound
}

func (m *MealStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, ml := range m.meals {
		if ml.ID == id && ml.UserID == userID {
			m.meals = append(m.meals[:i], m.meals[i+1:]...)
			return nil
		}
	}
	return common.ErrMealNotFound
}

func (m *MealStore) List(ctx context.Context, userID string, limit int) ([]meal.Meal, error) {
	out := m.filter(userID, func(meal.Meal) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MealStore) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error) {
	out := m.filter(userID, func(ml meal.Meal) bool { return !ml.Date.Before(start) && !ml.Date.After(end) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MealStore) ListOnDay(ctx context.Context, userID string, start, end time.Time) ([]meal.Meal, error) {
	out := m.filter(userID, func(ml meal.Meal) bool { return !ml.Date.Before(start) && ml.Date.Before(end) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MealStore) ExistsBetween(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	out, _ := m.ListOnDay(ctx, userID, start, end)
	return len(out) > 0, nil
}

func (m *MealStore) filter(userID string, keep func(meal.Meal) bool) []meal.Meal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []meal.Meal{}
	for _, ml := range m.meals {
		if ml.UserID == userID && keep(ml) {
			out = append(out, ml)
		}
	}
	return out
}

type WaterStore struct {
	mu      sync.Mutex
	records []water.Intake
	Err     error
}

func NewWaterStore() *WaterStore {
	return &WaterStore{}
}

func (m *WaterStore) FindBetween(ctx context.Context, userID string, start, end time.Time) (*water.Intake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, w := range m.records {
		if w.UserID == userID && !w.Date.Before(start) && w.Date.Before(end) {
			c := w
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *WaterStore) Create(ctx context.Context, w *water.Intake) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now()
	m.records = append(m.records, *w)
	return nil
}

func (m *WaterStore) UpdateGlasses(ctx context.Context, id uuid.UUID, glasses int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Glasses = glasses
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *WaterStore) List(ctx context.Context, userID string, limit int) ([]water.Intake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []water.Intake{}
	for _, w := range m.records {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *WaterStore) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]water.Intake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []water.Intake{}
	for _, w := range m.records {
		if w.UserID == userID && !w.Date.Before(start) && !w.Date.After(end) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type DeviceStore struct {
	mu     sync.Mutex
	tokens map[string]notification.DeviceToken
	Err    error
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{tokens: make(map[string]notification.DeviceToken)}
}

func (m *DeviceStore) Upsert(ctx context.Context, t notification.DeviceToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *DeviceStore) ListByUser(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []notification.DeviceToken
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

// PushCall records one SendPush invocation.
type PushCall struct {
	Tokens []notification.DeviceToken
	Title  string
	Body   string
	Data   map[string]any
}

type PushProvider struct {
	mu    sync.Mutex
	Calls []PushCall
	Err   error
}

func (p *PushProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, PushCall{Tokens: tokens, Title: title, Body: body, Data: data})
	return p.Err
}

var ErrStoreDown = errors.New("store unavailable")
