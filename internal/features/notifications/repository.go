package notifications

import (
	"errors"

	"bughive/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebhookRepository struct{}

func (r *WebhookRepository) CreateWebhook(webhook *Webhook) error {
	return storage.GetDb().Create(webhook).Error
}

// GetWebhookByID returns (nil, nil) when the webhook does not exist.
func (r *WebhookRepository) GetWebhookByID(webhookID uuid.UUID) (*Webhook, error) {
	var webhook Webhook

	err := storage.GetDb().Where("id = ?", webhookID).First(&webhook).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &webhook, nil
}

func (r *WebhookRepository) GetProjectWebhooks(projectID uuid.UUID) ([]*Webhook, error) {
	var webhooks []*Webhook

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&webhooks).Error
	if err != nil {
		return nil, err
	}

	return webhooks, nil
}

func (r *WebhookRepository) GetEnabledProjectWebhooks(projectID uuid.UUID) ([]*Webhook, error) {
	var webhooks []*Webhook

	err := storage.GetDb().
		Where("project_id = ? AND is_enabled = ?", projectID, true).
		Find(&webhooks).Error
	if err != nil {
		return nil, err
	}

	return webhooks, nil
}

func (r *WebhookRepository) UpdateWebhook(webhook *Webhook) error {
	return storage.GetDb().Save(webhook).Error
}

func (r *WebhookRepository) DeleteWebhook(webhookID uuid.UUID) error {
	return storage.GetDb().Where("id = ?", webhookID).Delete(&Webhook{}).Error
}

func (r *WebhookRepository) DeleteProjectWebhooks(projectID uuid.UUID) error {
	return storage.GetDb().Where("project_id = ?", projectID).Delete(&Webhook{}).Error
}
