package services

import (
	"context"
	"fmt"

	appconfig "name-swiper/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushService sends a match alert to the partner's device. Constructed with
// an empty cert path it becomes a no-op, so the server runs fine without an
// APNs setup.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a new push service
func NewPushService(cfg appconfig.APNSConfig) (*PushService, error) {
	if cfg.CertFile == "" {
		return &PushService{}, nil
	}

	cert, err := certificate.FromP12File(cfg.CertFile, cfg.CertPass)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: cfg.Topic}, nil
}

// Enabled reports whether pushes are configured.
func (s *PushService) Enabled() bool {
	return s.client != nil
}

// NotifyMatch pushes an alert about a newly matched name to a device token.
func (s *PushService) NotifyMatch(ctx context.Context, deviceToken, name string) error {
	if s.client == nil || deviceToken == "" {
		return nil
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle("It's a match!").
			AlertBody(fmt.Sprintf("You both like the name %s", name)).
			Sound("default"),
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}

	log.Info().Str("name", name).Msg("Match push sent")
	return nil
}
