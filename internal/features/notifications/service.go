package notifications

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
)

var ErrWebhookNotFound = errors.New("webhook not found")

type capabilityChecker interface {
	AuthorizeCapability(
		projectID uuid.UUID,
		user *users_models.User,
		capability projects_enums.Capability,
	) (*projects_models.ProjectMembership, error)
}

// WebhookService manages a project's notification endpoints. All mutations
// require the settings capability.
type WebhookService struct {
	webhookRepository *WebhookRepository
	capabilityChecker capabilityChecker
	logger            *slog.Logger
}

func (s *WebhookService) CreateWebhook(
	projectID uuid.UUID,
	request *CreateWebhookRequest,
	user *users_models.User,
) (*Webhook, error) {
	if _, err := s.capabilityChecker.AuthorizeCapability(
		projectID, user, projects_enums.CapabilityManageSettings,
	); err != nil {
		return nil, err
	}

	webhook := &Webhook{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      request.Name,
		URL:       request.URL,
		Secret:    request.Secret,
		IsEnabled: true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.webhookRepository.CreateWebhook(webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	s.logger.Info("webhook created", "webhookId", webhook.ID, "projectId", projectID)

	return webhook, nil
}

func (s *WebhookService) GetWebhooks(
	projectID uuid.UUID,
	user *users_models.User,
) (*WebhooksResponse, error) {
	if _, err := s.capabilityChecker.AuthorizeCapability(
		projectID, user, projects_enums.CapabilityManageSettings,
	); err != nil {
		return nil, err
	}

	webhooks, err := s.webhookRepository.GetProjectWebhooks(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load webhooks: %w", err)
	}

	return &WebhooksResponse{Webhooks: webhooks}, nil
}

func (s *WebhookService) UpdateWebhook(
	projectID uuid.UUID,
	webhookID uuid.UUID,
	request *UpdateWebhookRequest,
	user *users_models.User,
) (*Webhook, error) {
	if _, err := s.capabilityChecker.AuthorizeCapability(
		projectID, user, projects_enums.CapabilityManageSettings,
	); err != nil {
		return nil, err
	}

	webhook, err := s.loadProjectWebhook(projectID, webhookID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		webhook.Name = *request.Name
	}

	if request.URL != nil {
		webhook.URL = *request.URL
	}

	if request.Secret != nil {
		webhook.Secret = *request.Secret
	}

	if request.IsEnabled != nil {
		webhook.IsEnabled = *request.IsEnabled
	}

	webhook.UpdatedAt = time.Now().UTC()

	if err := s.webhookRepository.UpdateWebhook(webhook); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}

	return webhook, nil
}

func (s *WebhookService) DeleteWebhook(
	projectID uuid.UUID,
	webhookID uuid.UUID,
	user *users_models.User,
) error {
	if _, err := s.capabilityChecker.AuthorizeCapability(
		projectID, user, projects_enums.CapabilityManageSettings,
	); err != nil {
		return err
	}

	if _, err := s.loadProjectWebhook(projectID, webhookID); err != nil {
		return err
	}

	if err := s.webhookRepository.DeleteWebhook(webhookID); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	s.logger.Info("webhook deleted", "webhookId", webhookID, "projectId", projectID)

	return nil
}

// OnProjectDeleted drops the project's webhooks. Registered as a project
// deletion listener.
func (s *WebhookService) OnProjectDeleted(projectID uuid.UUID) error {
	return s.webhookRepository.DeleteProjectWebhooks(projectID)
}

func (s *WebhookService) loadProjectWebhook(projectID, webhookID uuid.UUID) (*Webhook, error) {
	webhook, err := s.webhookRepository.GetWebhookByID(webhookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load webhook: %w", err)
	}

	if webhook == nil || webhook.ProjectID != projectID {
		return nil, ErrWebhookNotFound
	}

	return webhook, nil
}
