package api_keys

import (
	"bughive/internal/cache"
	audit_logs "bughive/internal/features/audit_logs"
	projects_services "bughive/internal/features/projects/services"
	cache_utils "bughive/internal/util/cache"
	"bughive/internal/util/logger"

	"golang.org/x/sync/singleflight"
)

var apiKeyRepository = &ApiKeyRepository{}

var apiKeyService = &ApiKeyService{
	apiKeyRepository,
	projects_services.GetMembershipService(),
	audit_logs.GetAuditLogService(),
	cache_utils.NewCacheUtil[CachedApiKey](cache.GetCache(), "bh_apikey:"),
	singleflight.Group{},
	logger.GetLogger(),
}

var apiKeyController = &ApiKeyController{
	apiKeyService,
}

func GetApiKeyService() *ApiKeyService {
	return apiKeyService
}

func GetApiKeyController() *ApiKeyController {
	return apiKeyController
}

// SetupDependencies wires cross feature hooks that cannot live in the
// package level literals above.
func SetupDependencies() {
	projects_services.GetProjectService().AddDeletionListener(apiKeyService)
}
