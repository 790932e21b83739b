package api_keys

import (
	"log/slog"
	"strings"
	"testing"

	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
	"bughive/internal/features/projects/permissions"
	users_enums "bughive/internal/features/users/enums"
	users_models "bughive/internal/features/users/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/singleflight"
)

type memoryApiKeyStore struct {
	apiKeys     map[uuid.UUID]*ApiKey
	hashLookups int
}

func newMemoryApiKeyStore() *memoryApiKeyStore {
	return &memoryApiKeyStore{apiKeys: make(map[uuid.UUID]*ApiKey)}
}

func (s *memoryApiKeyStore) CreateApiKey(apiKey *ApiKey) error {
	copied := *apiKey
	s.apiKeys[apiKey.ID] = &copied
	return nil
}

func (s *memoryApiKeyStore) GetApiKeysByProjectID(projectID uuid.UUID) ([]*ApiKey, error) {
	var apiKeys []*ApiKey
	for _, apiKey := range s.apiKeys {
		if apiKey.ProjectID == projectID {
			copied := *apiKey
			apiKeys = append(apiKeys, &copied)
		}
	}

	return apiKeys, nil
}

func (s *memoryApiKeyStore) GetApiKeyByID(apiKeyID uuid.UUID) (*ApiKey, error) {
	apiKey, ok := s.apiKeys[apiKeyID]
	if !ok {
		return nil, nil
	}

	copied := *apiKey
	return &copied, nil
}

func (s *memoryApiKeyStore) GetActiveApiKeyByTokenHash(tokenHash string) (*ApiKey, error) {
	s.hashLookups++

	for _, apiKey := range s.apiKeys {
		if apiKey.TokenHash == tokenHash && apiKey.Status == ApiKeyStatusActive {
			copied := *apiKey
			return &copied, nil
		}
	}

	return nil, nil
}

func (s *memoryApiKeyStore) UpdateApiKey(apiKey *ApiKey) error {
	copied := *apiKey
	s.apiKeys[apiKey.ID] = &copied
	return nil
}

func (s *memoryApiKeyStore) DeleteApiKey(apiKeyID uuid.UUID) error {
	delete(s.apiKeys, apiKeyID)
	return nil
}

func (s *memoryApiKeyStore) DeleteProjectApiKeys(projectID uuid.UUID) error {
	for id, apiKey := range s.apiKeys {
		if apiKey.ProjectID == projectID {
			delete(s.apiKeys, id)
		}
	}

	return nil
}

type staticAuthorizer struct {
	allowed map[uuid.UUID]bool
}

func (a *staticAuthorizer) AuthorizeCapability(
	projectID uuid.UUID,
	user *users_models.User,
	capability projects_enums.Capability,
) (*projects_models.ProjectMembership, error) {
	if !a.allowed[user.ID] {
		return nil, permissions.ErrUnauthorized
	}

	return &projects_models.ProjectMembership{
		UserID:    user.ID,
		ProjectID: projectID,
		Role:      projects_enums.ProjectRoleOwner,
	}, nil
}

type recordingAuditWriter struct {
	messages []string
}

func (w *recordingAuditWriter) WriteAuditLog(message string, userID *uuid.UUID, projectID *uuid.UUID) {
	w.messages = append(w.messages, message)
}

type mapCache struct {
	entries map[string]*CachedApiKey
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*CachedApiKey)}
}

func (c *mapCache) Get(key string) *CachedApiKey {
	return c.entries[key]
}

func (c *mapCache) Set(key string, item *CachedApiKey) {
	c.entries[key] = item
}

func (c *mapCache) Invalidate(key string) {
	delete(c.entries, key)
}

type apiKeyFixture struct {
	service   *ApiKeyService
	store     *memoryApiKeyStore
	cache     *mapCache
	audit     *recordingAuditWriter
	projectID uuid.UUID
	owner     *users_models.User
	bystander *users_models.User
}

func newApiKeyFixture() *apiKeyFixture {
	store := newMemoryApiKeyStore()
	cache := newMapCache()
	audit := &recordingAuditWriter{}

	owner := &users_models.User{ID: uuid.New(), Role: users_enums.UserRoleMember}
	bystander := &users_models.User{ID: uuid.New(), Role: users_enums.UserRoleMember}

	service := &ApiKeyService{
		store,
		&staticAuthorizer{allowed: map[uuid.UUID]bool{owner.ID: true}},
		audit,
		cache,
		singleflight.Group{},
		slog.Default(),
	}

	return &apiKeyFixture{
		service:   service,
		store:     store,
		cache:     cache,
		audit:     audit,
		projectID: uuid.New(),
		owner:     owner,
		bystander: bystander,
	}
}

func TestCreateApiKey_ReturnsRawTokenOnce(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "ci-reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(apiKey.Token, TokenPrefix))
	assert.Len(t, apiKey.Token, len(TokenPrefix)+TokenLength)
	assert.True(t, strings.HasPrefix(apiKey.TokenPrefix, TokenPrefix))
	assert.Equal(t, ApiKeyStatusActive, apiKey.Status)
	assert.NotEqual(t, apiKey.Token, apiKey.TokenHash)

	stored, err := fixture.store.GetApiKeyByID(apiKey.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.Token)

	require.Len(t, fixture.audit.messages, 1)
	assert.Contains(t, fixture.audit.messages[0], "ci-reporter")
}

func TestCreateApiKey_WithoutManageSettingsFails(t *testing.T) {
	fixture := newApiKeyFixture()

	_, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "rogue"},
		fixture.bystander,
	)

	assert.ErrorIs(t, err, permissions.ErrUnauthorized)
	assert.Empty(t, fixture.store.apiKeys)
}

func TestValidateApiKey_AcceptsFreshToken(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	result, err := fixture.service.ValidateApiKey(apiKey.Token, fixture.projectID)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Equal(t, apiKey.ID, result.ApiKeyID)
	assert.Equal(t, fixture.projectID, result.ProjectID)

	// Creation pre-warms the cache, so validation never touched the store.
	assert.Equal(t, 0, fixture.store.hashLookups)
}

func TestValidateApiKey_RejectsWrongProject(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	result, err := fixture.service.ValidateApiKey(apiKey.Token, uuid.New())
	require.NoError(t, err)

	assert.False(t, result.IsValid)
}

func TestValidateApiKey_CachesUnknownTokens(t *testing.T) {
	fixture := newApiKeyFixture()

	for range 3 {
		result, err := fixture.service.ValidateApiKey(TokenPrefix+"deadbeefdeadbeefdeadbeefdeadbeef", fixture.projectID)
		require.NoError(t, err)
		assert.False(t, result.IsValid)
	}

	assert.Equal(t, 1, fixture.store.hashLookups)
}

func TestValidateApiKey_IgnoresForeignPrefixes(t *testing.T) {
	fixture := newApiKeyFixture()

	result, err := fixture.service.ValidateApiKey("sk_not_one_of_ours", fixture.projectID)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, 0, fixture.store.hashLookups)
}

func TestUpdateApiKey_DisablingRevokesToken(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	disabled := ApiKeyStatusDisabled
	err = fixture.service.UpdateApiKey(
		fixture.projectID,
		apiKey.ID,
		&UpdateApiKeyRequest{Status: &disabled},
		fixture.owner,
	)
	require.NoError(t, err)

	result, err := fixture.service.ValidateApiKey(apiKey.Token, fixture.projectID)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
}

func TestUpdateApiKey_RejectsUnknownStatus(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	bogus := ApiKeyStatus("BOGUS")
	err = fixture.service.UpdateApiKey(
		fixture.projectID,
		apiKey.ID,
		&UpdateApiKeyRequest{Status: &bogus},
		fixture.owner,
	)

	assert.Error(t, err)
}

func TestUpdateApiKey_WrongProjectIsNotFound(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	name := "renamed"
	err = fixture.service.UpdateApiKey(
		uuid.New(),
		apiKey.ID,
		&UpdateApiKeyRequest{Name: &name},
		fixture.owner,
	)

	assert.ErrorIs(t, err, ErrApiKeyNotFound)
}

func TestDeleteApiKey_RevokesToken(t *testing.T) {
	fixture := newApiKeyFixture()

	apiKey, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "reporter"},
		fixture.owner,
	)
	require.NoError(t, err)

	err = fixture.service.DeleteApiKey(fixture.projectID, apiKey.ID, fixture.owner)
	require.NoError(t, err)

	result, err := fixture.service.ValidateApiKey(apiKey.Token, fixture.projectID)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Empty(t, fixture.store.apiKeys)
}

func TestOnProjectDeleted_RemovesAllProjectKeys(t *testing.T) {
	fixture := newApiKeyFixture()

	first, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "first"},
		fixture.owner,
	)
	require.NoError(t, err)

	second, err := fixture.service.CreateApiKey(
		fixture.projectID,
		&CreateApiKeyRequest{Name: "second"},
		fixture.owner,
	)
	require.NoError(t, err)

	require.NoError(t, fixture.service.OnProjectDeleted(fixture.projectID))

	assert.Empty(t, fixture.store.apiKeys)
	assert.Empty(t, fixture.cache.entries)

	for _, token := range []string{first.Token, second.Token} {
		result, err := fixture.service.ValidateApiKey(token, fixture.projectID)
		require.NoError(t, err)
		assert.False(t, result.IsValid)
	}
}
