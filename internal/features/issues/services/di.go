package issues_services

import (
	"bughive/internal/features/events"
	issues_repositories "bughive/internal/features/issues/repositories"
	projects_services "bughive/internal/features/projects/services"
	"bughive/internal/util/logger"
	"bughive/internal/util/rate_limit"
)

var issueRepository = &issues_repositories.IssueRepository{}
var commentRepository = &issues_repositories.CommentRepository{}

var issueService = &IssueService{
	issueRepository,
	commentRepository,
	projects_services.GetMembershipService(),
	projects_services.GetProjectService(),
	rate_limit.NewRateLimiter(),
	events.GetDispatcher(),
	logger.GetLogger(),
}

func GetIssueService() *IssueService {
	return issueService
}

// SetupDependencies wires hooks that would create import cycles if they
// lived in the package level literals above.
func SetupDependencies() {
	projects_services.GetProjectService().AddDeletionListener(issueService)
}
