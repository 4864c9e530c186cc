package notification

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_StringifiesData(t *testing.T) {
	msg := BuildMessage("tok", "Title", "Body", map[string]any{
		"type":   "badge_earned",
		"streak": 7,
	})

	require.NotNil(t, msg.Notification)
	assert.Equal(t, "tok", msg.Token)
	assert.Equal(t, "Title", msg.Notification.Title)
	assert.Equal(t, "7", msg.Data["streak"])
	assert.Equal(t, "badge_earned", msg.Data["type"])
	assert.Equal(t, "high", msg.Android.Priority)
}

func TestCredentialsOption(t *testing.T) {
	_, err := credentialsOption("", "")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = credentialsOption("", "/nonexistent/key.json")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = credentialsOption("%%%not-base64", "")
	assert.Error(t, err)

	opt, err := credentialsOption(base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`)), "")
	require.NoError(t, err)
	assert.NotNil(t, opt)
}

func TestSendPush_NoTokens(t *testing.T) {
	s := &FCMService{}
	assert.NoError(t, s.SendPush(context.Background(), nil, "t", "b", nil))
}
