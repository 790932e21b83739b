package api_keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrApiKeyNotFound = errors.New("API key not found")

const (
	TokenPrefix = "bh_"
	TokenLength = 32
)

type ApiKeyStore interface {
	CreateApiKey(apiKey *ApiKey) error
	GetApiKeysByProjectID(projectID uuid.UUID) ([]*ApiKey, error)
	GetApiKeyByID(apiKeyID uuid.UUID) (*ApiKey, error)
	GetActiveApiKeyByTokenHash(tokenHash string) (*ApiKey, error)
	UpdateApiKey(apiKey *ApiKey) error
	DeleteApiKey(apiKeyID uuid.UUID) error
	DeleteProjectApiKeys(projectID uuid.UUID) error
}

type ProjectAuthorizer interface {
	AuthorizeCapability(
		projectID uuid.UUID,
		user *users_models.User,
		capability projects_enums.Capability,
	) (*projects_models.ProjectMembership, error)
}

type AuditWriter interface {
	WriteAuditLog(message string, userID *uuid.UUID, projectID *uuid.UUID)
}

type apiKeyCache interface {
	Get(key string) *CachedApiKey
	Set(key string, item *CachedApiKey)
	Invalidate(key string)
}

type ApiKeyService struct {
	apiKeyStore ApiKeyStore
	authorizer  ProjectAuthorizer
	auditWriter AuditWriter

	apiKeyCache apiKeyCache
	loadGroup   singleflight.Group
	logger      *slog.Logger
}

func (s *ApiKeyService) CreateApiKey(
	projectID uuid.UUID,
	request *CreateApiKeyRequest,
	creator *users_models.User,
) (*ApiKey, error) {
	if _, err := s.authorizer.AuthorizeCapability(projectID, creator, projects_enums.CapabilityManageSettings); err != nil {
		return nil, err
	}

	fullToken, tokenPrefix, tokenHash, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	apiKey := &ApiKey{
		ID:          uuid.New(),
		Name:        request.Name,
		ProjectID:   projectID,
		TokenPrefix: tokenPrefix,
		TokenHash:   tokenHash,
		Status:      ApiKeyStatusActive,
	}

	if err := s.apiKeyStore.CreateApiKey(apiKey); err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	// Pre-warm the cache so the key is usable immediately.
	s.apiKeyCache.Set(tokenHash, &CachedApiKey{
		ID:        apiKey.ID,
		ProjectID: apiKey.ProjectID,
		Status:    apiKey.Status,
	})

	s.auditWriter.WriteAuditLog(
		fmt.Sprintf("API key created: %s (%s)", request.Name, tokenPrefix),
		&creator.ID,
		&projectID,
	)

	// Returned exactly once, at creation time.
	apiKey.Token = fullToken

	return apiKey, nil
}

func (s *ApiKeyService) GetProjectApiKeys(
	projectID uuid.UUID,
	user *users_models.User,
) (*ApiKeysResponse, error) {
	if _, err := s.authorizer.AuthorizeCapability(projectID, user, projects_enums.CapabilityManageSettings); err != nil {
		return nil, err
	}

	apiKeys, err := s.apiKeyStore.GetApiKeysByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get API keys: %w", err)
	}

	return &ApiKeysResponse{ApiKeys: apiKeys}, nil
}

func (s *ApiKeyService) UpdateApiKey(
	projectID uuid.UUID,
	apiKeyID uuid.UUID,
	request *UpdateApiKeyRequest,
	updater *users_models.User,
) error {
	if _, err := s.authorizer.AuthorizeCapability(projectID, updater, projects_enums.CapabilityManageSettings); err != nil {
		return err
	}

	apiKey, err := s.loadProjectApiKey(projectID, apiKeyID)
	if err != nil {
		return err
	}

	if request.Name != nil {
		apiKey.Name = *request.Name
	}

	if request.Status != nil {
		if *request.Status != ApiKeyStatusActive && *request.Status != ApiKeyStatusDisabled {
			return fmt.Errorf("invalid API key status: %s", *request.Status)
		}
		apiKey.Status = *request.Status
	}

	if err := s.apiKeyStore.UpdateApiKey(apiKey); err != nil {
		return fmt.Errorf("failed to update API key: %w", err)
	}

	s.apiKeyCache.Invalidate(apiKey.TokenHash)

	s.auditWriter.WriteAuditLog(
		fmt.Sprintf("API key updated: %s (%s)", apiKey.Name, apiKey.TokenPrefix),
		&updater.ID,
		&projectID,
	)

	return nil
}

func (s *ApiKeyService) DeleteApiKey(
	projectID uuid.UUID,
	apiKeyID uuid.UUID,
	deleter *users_models.User,
) error {
	if _, err := s.authorizer.AuthorizeCapability(projectID, deleter, projects_enums.CapabilityManageSettings); err != nil {
		return err
	}

	apiKey, err := s.loadProjectApiKey(projectID, apiKeyID)
	if err != nil {
		return err
	}

	if err := s.apiKeyStore.DeleteApiKey(apiKeyID); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	s.apiKeyCache.Invalidate(apiKey.TokenHash)

	s.auditWriter.WriteAuditLog(
		fmt.Sprintf("API key deleted: %s (%s)", apiKey.Name, apiKey.TokenPrefix),
		&deleter.ID,
		&projectID,
	)

	return nil
}

// ValidateApiKey resolves a raw token against a project. Lookups go through
// the cache first, then the database behind singleflight. Misses are cached
// negatively so repeated garbage tokens do not hammer the database.
func (s *ApiKeyService) ValidateApiKey(token string, projectID uuid.UUID) (*ValidateTokenResponse, error) {
	if !strings.HasPrefix(token, TokenPrefix) {
		return &ValidateTokenResponse{IsValid: false}, nil
	}

	tokenHash := s.hashToken(token)

	if cachedKey := s.apiKeyCache.Get(tokenHash); cachedKey != nil {
		if cachedKey.ProjectID != projectID || cachedKey.Status != ApiKeyStatusActive {
			return &ValidateTokenResponse{IsValid: false}, nil
		}

		return &ValidateTokenResponse{
			IsValid:   true,
			ApiKeyID:  cachedKey.ID,
			ProjectID: cachedKey.ProjectID,
		}, nil
	}

	result, err, _ := s.loadGroup.Do(tokenHash, func() (any, error) {
		return s.apiKeyStore.GetActiveApiKeyByTokenHash(tokenHash)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}

	apiKey, _ := result.(*ApiKey)
	if apiKey == nil {
		s.apiKeyCache.Set(tokenHash, &CachedApiKey{
			ID:        uuid.Nil,
			ProjectID: uuid.Nil,
			Status:    ApiKeyStatusNotFound,
		})

		return &ValidateTokenResponse{IsValid: false}, nil
	}

	s.apiKeyCache.Set(tokenHash, &CachedApiKey{
		ID:        apiKey.ID,
		ProjectID: apiKey.ProjectID,
		Status:    apiKey.Status,
	})

	if apiKey.ProjectID != projectID {
		return &ValidateTokenResponse{IsValid: false}, nil
	}

	return &ValidateTokenResponse{
		IsValid:   true,
		ApiKeyID:  apiKey.ID,
		ProjectID: apiKey.ProjectID,
	}, nil
}

func (s *ApiKeyService) OnProjectDeleted(projectID uuid.UUID) error {
	apiKeys, err := s.apiKeyStore.GetApiKeysByProjectID(projectID)
	if err != nil {
		return fmt.Errorf("failed to load API keys for deleted project: %w", err)
	}

	if err := s.apiKeyStore.DeleteProjectApiKeys(projectID); err != nil {
		return fmt.Errorf("failed to delete project API keys: %w", err)
	}

	for _, apiKey := range apiKeys {
		s.apiKeyCache.Invalidate(apiKey.TokenHash)
	}

	s.logger.Info("deleted project API keys", "projectId", projectID, "count", len(apiKeys))

	return nil
}

func (s *ApiKeyService) loadProjectApiKey(projectID uuid.UUID, apiKeyID uuid.UUID) (*ApiKey, error) {
	apiKey, err := s.apiKeyStore.GetApiKeyByID(apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load API key: %w", err)
	}

	if apiKey == nil || apiKey.ProjectID != projectID {
		return nil, ErrApiKeyNotFound
	}

	return apiKey, nil
}

func (s *ApiKeyService) generateSecureToken() (fullToken, prefix, hash string, err error) {
	tokenBytes := make([]byte, TokenLength/2) // hex encoding doubles the length
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", "", err
	}

	tokenSuffix := hex.EncodeToString(tokenBytes)
	fullToken = TokenPrefix + tokenSuffix
	prefix = TokenPrefix + tokenSuffix[:6] + "..."
	hash = s.hashToken(fullToken)

	return fullToken, prefix, hash, nil
}

func (s *ApiKeyService) hashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}
