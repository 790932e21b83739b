package audit_logs

import (
	"bughive/internal/features/events"
	projects_services "bughive/internal/features/projects/services"
	users_services "bughive/internal/features/users/services"
	"bughive/internal/util/logger"
)

var auditLogRepository = &AuditLogRepository{}
var auditLogService = &AuditLogService{
	auditLogRepository: auditLogRepository,
	capabilityChecker:  projects_services.GetMembershipService(),
	logger:             logger.GetLogger(),
}
var auditLogController = &AuditLogController{
	auditLogService: auditLogService,
}
var eventSubscriber = &EventSubscriber{
	auditLogService: auditLogService,
}

func GetAuditLogService() *AuditLogService {
	return auditLogService
}

func GetAuditLogController() *AuditLogController {
	return auditLogController
}

// SetupDependencies connects the audit trail to the rest of the system.
// Called once from main after all packages are initialized.
func SetupDependencies() {
	users_services.GetUserService().SetAuditLogWriter(auditLogService)
	events.GetDispatcher().Subscribe(eventSubscriber)
}
