package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"residency-sync/internal/domain/entity"
	"residency-sync/internal/domain/repository"
	"residency-sync/pkg/logger"
)

// WebhookNotifier posts conflict notifications to an external endpoint.
type WebhookNotifier struct {
	logger      logger.Logger
	endpoint    string
	bearerToken string
	client      *http.Client
}

// NewWebhookNotifier creates the webhook-backed notifier.
func NewWebhookNotifier(endpoint, bearerToken string, logger logger.Logger) repository.TravelNotifier {
	return &WebhookNotifier{
		logger:      logger,
		endpoint:    endpoint,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type conflictNotification struct {
	Date            string `json:"date"`
	Country         string `json:"country"`
	CountryConflict string `json:"countryConflict"`
	BookingSource   string `json:"bookingSource,omitempty"`
}

// NotifyConflict sends one advisory conflict notification.
func (n *WebhookNotifier) NotifyConflict(ctx context.Context, record *entity.LocationRecord) error {
	body := conflictNotification{
		Date:            record.Date,
		Country:         record.Country,
		CountryConflict: record.CountryConflict,
		BookingSource:   record.BookingSource,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if n.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.bearerToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}

	n.logger.Info("Conflict notification sent", "date", record.Date)
	return nil
}
