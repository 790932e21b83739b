package users_interfaces

import (
	"github.com/google/uuid"
)

// AuditLogWriter records audit entries without importing the audit feature,
// which depends on this package through its capability checks.
type AuditLogWriter interface {
	WriteAuditLog(message string, userID *uuid.UUID, projectID *uuid.UUID)
}
