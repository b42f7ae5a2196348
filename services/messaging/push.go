package messaging

import (
	"context"
	"errors"
	"fmt"

	"lefri/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrNoDeviceToken is returned when the user never registered a device.
var ErrNoDeviceToken = errors.New("user has no FCM token")

// PushNotifier sends a push notification to one device.
type PushNotifier interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMNotifier sends pushes through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
}

// NewFCMNotifier initializes the Firebase App and Messaging client from a
// service-account file.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return &FCMNotifier{client: client}, nil
}

func (n *FCMNotifier) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return ErrNoDeviceToken
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("Push notification sent", zap.String("messageID", id))
	return nil
}
