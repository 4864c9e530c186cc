package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New("user_1")

	assert.Equal(t, "user_1", s.UserID)
	assert.NotNil(t, s.Badges)
	assert.Empty(t, s.Badges)
	assert.Nil(t, s.LastWorkoutDate)
}

func TestHasBadge(t *testing.T) {
	s := New("user_1")
	s.Badges = append(s.Badges, Badge{Name: "Week Warrior", EarnedDate: time.Now()})

	assert.True(t, s.HasBadge("Week Warrior"))
	assert.False(t, s.HasBadge("week warrior"))
	assert.False(t, s.HasBadge("Meal Master"))
}
