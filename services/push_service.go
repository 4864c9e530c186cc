package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fitStreakAPI/internal/types/notification"
	"fitStreakAPI/internal/types/streak"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type DeviceStore interface {
	Upsert(ctx context.Context, t notification.DeviceToken) error
	ListByUser(ctx context.Context, userID string) ([]notification.DeviceToken, error)
}

// PushService registers devices and delivers badge and streak reminders.
// Without a provider every send is a no-op.
type PushService struct {
	devices  DeviceStore
	provider PushNotificationProvider
}

func NewPushService(devices DeviceStore) *PushService {
	return &PushService{devices: devices}
}

func (s *PushService) SetPushProvider(provider PushNotificationProvider) {
	s.provider = provider
}

func (s *PushService) RegisterDevice(ctx context.Context, userID string, req notification.RegisterDeviceRequest) error {
	now := time.Now()
	return s.devices.Upsert(ctx, notification.DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
		AddedAt:  now,
		LastUsed: now,
	})
}

func (s *PushService) NotifyBadges(ctx context.Context, userID string, badges []streak.Badge) error {
	if len(badges) == 0 {
		return nil
	}

	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}

	title := "New badge earned!"
	body := fmt.Sprintf("You earned the %s badge.", names[0])
	if len(names) > 1 {
		title = "New badges earned!"
		body = fmt.Sprintf("You earned %d badges: %s.", len(names), strings.Join(names, ", "))
	}

	return s.send(ctx, userID, notification.NotificationBadgeEarned, title, body, map[string]any{
		"badges": strings.Join(names, ","),
	})
}

func (s *PushService) NotifyStreakRisk(ctx context.Context, userID string, domains []Domain) error {
	if len(domains) == 0 {
		return nil
	}

	parts := make([]string, 0, len(domains))
	for _, d := range domains {
		parts = append(parts, string(d))
	}
	list := strings.Join(parts, ", ")

	return s.send(ctx, userID, notification.NotificationStreakRisk,
		"Keep your streak alive",
		fmt.Sprintf("Your %s streak ends at midnight. Log today to keep it going.", list),
		map[string]any{"domains": strings.Join(parts, ",")},
	)
}

func (s *PushService) send(ctx context.Context, userID string, kind notification.NotificationType, title, body string, data map[string]any) error {
	if s.provider == nil {
		return nil
	}

	tokens, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	data["type"] = string(kind)
	if err := s.provider.SendPush(ctx, tokens, title, body, data); err != nil {
		pushSentTotal.WithLabelValues(string(kind), "error").Inc()
		return err
	}

	pushSentTotal.WithLabelValues(string(kind), "ok").Inc()
	log.WithFields(log.Fields{
		"user_id": userID,
		"type":    kind,
		"devices": len(tokens),
	}).Debug("Push sent")
	return nil
}
