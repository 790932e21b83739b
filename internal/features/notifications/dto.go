package notifications

import (
	"encoding/json"
	"time"

	"bughive/internal/features/events"

	"github.com/google/uuid"
)

type CreateWebhookRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=255"`
	URL    string `json:"url" binding:"required,url"`
	Secret string `json:"secret" binding:"omitempty,min=8,max=255"`
}

type UpdateWebhookRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=255"`
	URL       *string `json:"url" binding:"omitempty,url"`
	Secret    *string `json:"secret" binding:"omitempty,min=8,max=255"`
	IsEnabled *bool   `json:"isEnabled"`
}

type WebhooksResponse struct {
	Webhooks []*Webhook `json:"webhooks"`
}

// NotificationTask is the payload carried through the task queue.
type NotificationTask struct {
	EventID    uuid.UUID       `json:"eventId"`
	Kind       events.Kind     `json:"kind"`
	ProjectID  uuid.UUID       `json:"projectId"`
	ActorID    uuid.UUID       `json:"actorId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}
