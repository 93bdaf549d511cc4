package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 reads the service account JSON from a base64
// string, for hosts where uploading a file is awkward.
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendRouteAssignedNotification tells a collector a route is waiting.
func (s *FCMService) SendRouteAssignedNotification(ctx context.Context, token, routeID string, totalBins int) error {
	return s.send(ctx, token,
		"New Route Assigned!",
		fmt.Sprintf("You have %d bins to collect.", totalBins),
		map[string]string{
			"type":       "ROUTE_ASSIGNED",
			"route_id":   routeID,
			"total_bins": strconv.Itoa(totalBins),
		})
}

// SendBinFullNotification tells a bin owner one of their bins is nearly
// full.
func (s *FCMService) SendBinFullNotification(ctx context.Context, token, binID string, level int) error {
	return s.send(ctx, token,
		"Bin nearly full",
		fmt.Sprintf("Bin %s is %d%% full.", binID, level),
		map[string]string{
			"type":   "BIN_FULL",
			"bin_id": binID,
			"level":  strconv.Itoa(level),
		})
}

func (s *FCMService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM notification sent: %s", response)
	return nil
}
