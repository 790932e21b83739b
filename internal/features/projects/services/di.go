package projects_services

import (
	"bughive/internal/cache"
	"bughive/internal/features/events"
	projects_models "bughive/internal/features/projects/models"
	projects_repositories "bughive/internal/features/projects/repositories"
	users_services "bughive/internal/features/users/services"
	cache_utils "bughive/internal/util/cache"
	"bughive/internal/util/logger"
)

var projectRepository = &projects_repositories.ProjectRepository{}
var membershipRepository = &projects_repositories.MembershipRepository{}

var membershipService = &MembershipService{
	membershipRepository,
	users_services.GetUserService(),
	events.GetDispatcher(),
	logger.GetLogger(),
}

var projectService = &ProjectService{
	projectRepository: projectRepository,
	membershipService: membershipService,
	projectCache:      cache_utils.NewCacheUtil[projects_models.Project](cache.GetCache(), "bh_project:"),
	logger:            logger.GetLogger(),
}

func GetMembershipService() *MembershipService {
	return membershipService
}

func GetProjectService() *ProjectService {
	return projectService
}
