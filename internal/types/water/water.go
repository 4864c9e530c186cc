package water

import (
	"time"

	"github.com/google/uuid"
)

const MaxGlasses = 20

type Intake struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Glasses   int       `json:"glasses" db:"glasses"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type SetGlassesRequest struct {
	Glasses *int `json:"glasses"`
}

type WeeklyStats struct {
	TotalGlasses   int      `json:"totalGlasses"`
	AverageGlasses float64  `json:"averageGlasses"`
	DaysWithWater  int      `json:"daysWithWater"`
	WeeklyData     []Intake `json:"weeklyData"`
}
