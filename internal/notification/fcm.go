package notification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"fitStreakAPI/internal/types/notification"
)

var ErrNoCredentials = errors.New("no firebase credentials configured")

type FCMService struct {
	client *messaging.Client
}

// NewFCMService builds a messaging client from base64 service-account JSON
// when encodedCreds is set, otherwise from the key file at localFilePath.
func NewFCMService(ctx context.Context, encodedCreds, localFilePath string) (*FCMService, error) {
	opt, err := credentialsOption(encodedCreds, localFilePath)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

func credentialsOption(encodedCreds, localFilePath string) (option.ClientOption, error) {
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		log.Info("FCM: using credentials from FCM_SERVICE_ACCOUNT_JSON")
		return option.WithCredentialsJSON(decoded), nil
	}

	if localFilePath == "" {
		return nil, ErrNoCredentials
	}
	if _, err := os.Stat(localFilePath); err != nil {
		return nil, fmt.Errorf("%w: %s not readable: %v", ErrNoCredentials, localFilePath, err)
	}
	log.WithField("path", localFilePath).Info("FCM: using credentials file")
	return option.WithCredentialsFile(localFilePath), nil
}

// SendPush sends one message per token. It fails only when every send failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	if len(tokens) == 0 {
		return nil
	}

	sent, failed := 0, 0
	for _, t := range tokens {
		if _, err := s.client.Send(ctx, BuildMessage(t.Token, title, body, data)); err != nil {
			log.WithError(err).WithField("platform", t.Platform).Warn("FCM: send failed")
			failed++
			continue
		}
		sent++
	}

	log.WithFields(log.Fields{"sent": sent, "failed": failed}).Debug("FCM: batch finished")
	if sent == 0 && failed > 0 {
		return fmt.Errorf("all %d push notifications failed", failed)
	}
	return nil
}

// BuildMessage converts data values to strings, as FCM requires.
func BuildMessage(token, title, body string, data map[string]any) *messaging.Message {
	stringData := make(map[string]string, len(data))
	for k, v := range data {
		stringData[k] = fmt.Sprintf("%v", v)
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: stringData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
