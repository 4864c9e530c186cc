// Package jobs runs the background cron tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type ReminderSender interface {
	SendStreakReminders(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	reminders ReminderSender
	timeout   time.Duration
}

func NewScheduler(reminders ReminderSender, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reminders: reminders,
		timeout:   2 * time.Minute,
	}
}

// Start registers the reminder job on the cron schedule and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.runReminders(ctx) }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	log.WithField("schedule", schedule).Info("Scheduler started")
	return nil
}

func (s *Scheduler) runReminders(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	sent, err := s.reminders.SendStreakReminders(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Streak reminders failed")
		return
	}
	log.WithFields(log.Fields{
		"sent":     sent,
		"duration": time.Since(start).String(),
	}).Info("[CRON] Streak reminders sent")
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}
