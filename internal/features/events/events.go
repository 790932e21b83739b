package events

import (
	"time"

	issues_enums "bughive/internal/features/issues/enums"
	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
)

type Kind string

const (
	KindIssueCreated      Kind = "IssueCreated"
	KindIssueUpdated      Kind = "IssueUpdated"
	KindIssueDeleted      Kind = "IssueDeleted"
	KindIssueAssigned     Kind = "IssueAssigned"
	KindIssueTransitioned Kind = "IssueTransitioned"
	KindIssueCommented    Kind = "IssueCommented"
	KindMemberAdded       Kind = "MemberAdded"
	KindMemberRemoved     Kind = "MemberRemoved"
	KindMemberUpdated     Kind = "MemberUpdated"
)

// DomainEvent is an immutable record of a committed state change. One event
// is published per successful mutation, after the mutation is applied.
type DomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	ProjectID  uuid.UUID `json:"projectId"`
	ActorID    uuid.UUID `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type IssueCreatedPayload struct {
	IssueID uuid.UUID `json:"issueId"`
	Title   string    `json:"title"`
}

type IssueUpdatedPayload struct {
	IssueID uuid.UUID `json:"issueId"`
	Title   string    `json:"title"`
}

type IssueDeletedPayload struct {
	IssueID uuid.UUID `json:"issueId"`
}

type IssueAssignedPayload struct {
	IssueID    uuid.UUID  `json:"issueId"`
	AssigneeID *uuid.UUID `json:"assigneeId"` // nil when unassigned
}

type IssueTransitionedPayload struct {
	IssueID   uuid.UUID                `json:"issueId"`
	OldStatus issues_enums.IssueStatus `json:"oldStatus"`
	NewStatus issues_enums.IssueStatus `json:"newStatus"`
}

type IssueCommentedPayload struct {
	IssueID   uuid.UUID `json:"issueId"`
	CommentID uuid.UUID `json:"commentId"`
}

type MemberAddedPayload struct {
	UserID    uuid.UUID                   `json:"userId"`
	Role      projects_enums.ProjectRole  `json:"role"`
	Overrides []projects_enums.Capability `json:"overrides"`
}

type MemberRemovedPayload struct {
	UserID uuid.UUID `json:"userId"`
}

type MemberUpdatedPayload struct {
	UserID    uuid.UUID                   `json:"userId"`
	Role      projects_enums.ProjectRole  `json:"role"`
	Overrides []projects_enums.Capability `json:"overrides"`
}

func NewEvent(kind Kind, projectID, actorID uuid.UUID, payload any) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New(),
		Kind:       kind,
		ProjectID:  projectID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
