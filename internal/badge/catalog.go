package badge

import "fitStreakAPI/internal/types/streak"

type RequirementType string

const (
	RequirementWorkout       RequirementType = "workout"
	RequirementWorkoutStreak RequirementType = "workout_streak"
	RequirementWaterStreak   RequirementType = "water_streak"
	RequirementDietStreak    RequirementType = "diet_streak"
	RequirementMealCount     RequirementType = "meal_count"
)

const (
	FirstWorkout   = "First Workout"
	WeekWarrior    = "Week Warrior"
	HydrationHero  = "Hydration Hero"
	MealMaster     = "Meal Master"
	FitnessFanatic = "Fitness Fanatic"
	CalorieCounter = "Calorie Counter"
)

type Requirement struct {
	Type  RequirementType `json:"type"`
	Count int             `json:"count"`
}

type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Requirement Requirement `json:"requirement"`
}

var catalog = []Definition{
	{
		Name:        FirstWorkout,
		Description: "Complete your first workout",
		Image:       "/images/badges/first-workout.png",
		Requirement: Requirement{Type: RequirementWorkout, Count: 1},
	},
	{
		Name:        WeekWarrior,
		Description: "Work out for 7 consecutive days",
		Image:       "/images/badges/week-warrior.png",
		Requirement: Requirement{Type: RequirementWorkoutStreak, Count: 7},
	},
	{
		Name:        HydrationHero,
		Description: "Drink 8+ glasses of water for 7 days",
		Image:       "/images/badges/hydration-hero.png",
		Requirement: Requirement{Type: RequirementWaterStreak, Count: 7},
	},
	{
		Name:        MealMaster,
		Description: "Log meals for 14 consecutive days",
		Image:       "/images/badges/meal-master.png",
		Requirement: Requirement{Type: RequirementDietStreak, Count: 14},
	},
	{
		Name:        FitnessFanatic,
		Description: "Work out for 30 consecutive days",
		Image:       "/images/badges/fitness-fanatic.png",
		Requirement: Requirement{Type: RequirementWorkoutStreak, Count: 30},
	},
	{
		Name:        CalorieCounter,
		Description: "Log 100 meals",
		Image:       "/images/badges/calorie-counter.png",
		Requirement: Requirement{Type: RequirementMealCount, Count: 100},
	},
}

// streakRules is the evaluation order used when checking for new badges.
// First Workout and Calorie Counter are listed in the catalog but never auto-awarded.
var streakRules = []string{WeekWarrior, FitnessFanatic, HydrationHero, MealMaster}

// Available returns a copy of the catalog in display order.
func Available() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(name string) (Definition, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// StreakRules returns the auto-awarded badge definitions in evaluation order.
func StreakRules() []Definition {
	out := make([]Definition, 0, len(streakRules))
	for _, name := range streakRules {
		if d, ok := Lookup(name); ok {
			out = append(out, d)
		}
	}
	return out
}

// Met reports whether the streak counters satisfy the requirement.
// Count-based requirements are not derivable from a streak record and never match.
func (d Definition) Met(s *streak.Streak) bool {
	if s == nil {
		return false
	}
	switch d.Requirement.Type {
	case RequirementWorkoutStreak:
		return s.WorkoutStreak >= d.Requirement.Count
	case RequirementWaterStreak:
		return s.WaterStreak >= d.Requirement.Count
	case RequirementDietStreak:
		return s.DietStreak >= d.Requirement.Count
	default:
		return false
	}
}

func (d Definition) Badge() streak.Badge {
	return streak.Badge{Name: d.Name, Description: d.Description, Image: d.Image}
}
