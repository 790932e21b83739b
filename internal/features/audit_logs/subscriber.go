package audit_logs

import (
	"fmt"

	"bughive/internal/features/events"
)

// EventSubscriber records every domain event as an audit log entry.
type EventSubscriber struct {
	auditLogService *AuditLogService
}

func (s *EventSubscriber) HandleEvent(event *events.DomainEvent) {
	message := renderEventMessage(event)
	if message == "" {
		return
	}

	actorID := event.ActorID
	projectID := event.ProjectID

	s.auditLogService.WriteAuditLog(message, &actorID, &projectID)
}

func renderEventMessage(event *events.DomainEvent) string {
	switch payload := event.Payload.(type) {
	case events.IssueCreatedPayload:
		return fmt.Sprintf("Issue %q created (%s)", payload.Title, payload.IssueID)
	case events.IssueUpdatedPayload:
		return fmt.Sprintf("Issue %q updated (%s)", payload.Title, payload.IssueID)
	case events.IssueDeletedPayload:
		return fmt.Sprintf("Issue %s deleted", payload.IssueID)
	case events.IssueAssignedPayload:
		if payload.AssigneeID == nil {
			return fmt.Sprintf("Issue %s unassigned", payload.IssueID)
		}

		return fmt.Sprintf("Issue %s assigned to user %s", payload.IssueID, *payload.AssigneeID)
	case events.IssueTransitionedPayload:
		return fmt.Sprintf(
			"Issue %s moved from %s to %s",
			payload.IssueID, payload.OldStatus, payload.NewStatus,
		)
	case events.IssueCommentedPayload:
		return fmt.Sprintf("Comment %s added to issue %s", payload.CommentID, payload.IssueID)
	case events.MemberAddedPayload:
		return fmt.Sprintf("User %s added to project with role %s", payload.UserID, payload.Role)
	case events.MemberRemovedPayload:
		return fmt.Sprintf("User %s removed from project", payload.UserID)
	case events.MemberUpdatedPayload:
		return fmt.Sprintf("Membership of user %s changed to role %s", payload.UserID, payload.Role)
	default:
		return ""
	}
}
