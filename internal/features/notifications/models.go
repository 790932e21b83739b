package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Webhook is an outgoing notification endpoint configured per project.
type Webhook struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id"`
	ProjectID uuid.UUID `json:"projectId" gorm:"column:project_id"`
	Name      string    `json:"name"      gorm:"column:name"`
	URL       string    `json:"url"       gorm:"column:url"`
	Secret    string    `json:"-"         gorm:"column:secret"`
	IsEnabled bool      `json:"isEnabled" gorm:"column:is_enabled"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Webhook) TableName() string {
	return "webhooks"
}
