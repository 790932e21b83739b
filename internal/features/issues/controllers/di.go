package issues_controllers

import (
	api_keys "bughive/internal/features/api_keys"
	issues_services "bughive/internal/features/issues/services"
)

var issueController = &IssueController{issues_services.GetIssueService()}

var intakeController = &IntakeController{
	issues_services.GetIssueService(),
	api_keys.GetApiKeyService(),
}

func GetIssueController() *IssueController {
	return issueController
}

func GetIntakeController() *IntakeController {
	return intakeController
}
