package notifications

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	webhookRatePerSecond = 5
	webhookBurst         = 10
)

// DeliveryService posts notification tasks to every enabled webhook of the
// project. Each webhook endpoint is rate limited so one noisy project
// cannot flood a receiver.
type DeliveryService struct {
	webhookRepository *WebhookRepository
	client            *http.Client
	logger            *slog.Logger

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

func (s *DeliveryService) Deliver(ctx context.Context, task *NotificationTask) error {
	webhooks, err := s.webhookRepository.GetEnabledProjectWebhooks(task.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load project webhooks: %w", err)
	}

	if len(webhooks) == 0 {
		return nil
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal notification body: %w", err)
	}

	var lastErr error
	for _, webhook := range webhooks {
		if !s.limiterFor(webhook.ID).Allow() {
			s.logger.Warn("webhook delivery skipped by rate limit",
				"webhookId", webhook.ID,
				"projectId", task.ProjectID,
			)
			continue
		}

		if err := s.post(ctx, webhook, body); err != nil {
			s.logger.Error("webhook delivery failed",
				"webhookId", webhook.ID,
				"url", webhook.URL,
				"error", err,
			)
			lastErr = err
		}
	}

	return lastErr
}

func (s *DeliveryService) post(ctx context.Context, webhook *Webhook, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if webhook.Secret != "" {
		request.Header.Set("X-BugHive-Signature", signBody(webhook.Secret, body))
	}

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		if closeErr := response.Body.Close(); closeErr != nil {
			s.logger.Error("failed to close webhook response body", "error", closeErr)
		}
	}()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", response.StatusCode)
	}

	return nil
}

func (s *DeliveryService) limiterFor(webhookID uuid.UUID) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[webhookID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(webhookRatePerSecond), webhookBurst)
		s.limiters[webhookID] = limiter
	}

	return limiter
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
