package streak

import "time"

type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	EarnedDate  time.Time `json:"earnedDate"`
}

// Streak is the per-user streak record. One row per user, created lazily.
type Streak struct {
	UserID          string     `json:"userId" db:"user_id"`
	WorkoutStreak   int        `json:"workoutStreak" db:"workout_streak"`
	WaterStreak     int        `json:"waterStreak" db:"water_streak"`
	DietStreak      int        `json:"dietStreak" db:"diet_streak"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate" db:"last_workout_date"`
	LastWaterDate   *time.Time `json:"lastWaterDate" db:"last_water_date"`
	LastDietDate    *time.Time `json:"lastDietDate" db:"last_diet_date"`
	Badges          []Badge    `json:"badges" db:"badges"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

func New(userID string) *Streak {
	return &Streak{UserID: userID, Badges: []Badge{}}
}

func (s *Streak) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

type UpdateCountersRequest struct {
	WorkoutStreak *int `json:"workoutStreak"`
	WaterStreak   *int `json:"waterStreak"`
	DietStreak    *int `json:"dietStreak"`
}

type AddBadgeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type BadgeCheckResult struct {
	NewBadges []string `json:"newBadges"`
	Streak    *Streak  `json:"streak"`
}
