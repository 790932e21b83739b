package api_keys

import (
	"github.com/google/uuid"
)

type CreateApiKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type UpdateApiKeyRequest struct {
	Name   *string       `json:"name,omitempty"   binding:"omitempty,min=1,max=100"`
	Status *ApiKeyStatus `json:"status,omitempty"`
}

type ApiKeysResponse struct {
	ApiKeys []*ApiKey `json:"apiKeys"`
}

type ValidateTokenResponse struct {
	IsValid   bool      `json:"isValid"`
	ApiKeyID  uuid.UUID `json:"apiKeyId,omitempty"`
	ProjectID uuid.UUID `json:"projectId,omitempty"`
}

// CachedApiKey is the slim projection kept in valkey keyed by token hash.
type CachedApiKey struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"projectId"`
	Status    ApiKeyStatus `json:"status"`
}
