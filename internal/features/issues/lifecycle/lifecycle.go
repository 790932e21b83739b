// Package lifecycle implements the issue status state machine: which status
// transitions are legal, which capability each one requires, and the
// resolution bookkeeping that comes with them.
package lifecycle

import (
	"errors"
	"time"

	"bughive/internal/features/events"
	issues_enums "bughive/internal/features/issues/enums"
	issues_models "bughive/internal/features/issues/models"
	"bughive/internal/features/projects/permissions"
	projects_enums "bughive/internal/features/projects/enums"
	projects_models "bughive/internal/features/projects/models"
)

// ErrInvalidTransition is returned for any (from, to) pair outside the
// transition table, regardless of the actor's capabilities.
var ErrInvalidTransition = errors.New("invalid status transition")

type transitionKey struct {
	from issues_enums.IssueStatus
	to   issues_enums.IssueStatus
}

var transitionTable = map[transitionKey]projects_enums.Capability{
	{issues_enums.IssueStatusOpen, issues_enums.IssueStatusInProgress}:       projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusInProgress, issues_enums.IssueStatusInReview}:   projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusInProgress, issues_enums.IssueStatusOpen}:       projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusInReview, issues_enums.IssueStatusResolved}:     projects_enums.CapabilityResolveIssue,
	{issues_enums.IssueStatusInReview, issues_enums.IssueStatusInProgress}:   projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusResolved, issues_enums.IssueStatusClosed}:       projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusResolved, issues_enums.IssueStatusReopened}:     projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusClosed, issues_enums.IssueStatusReopened}:       projects_enums.CapabilityEditIssue,
	{issues_enums.IssueStatusReopened, issues_enums.IssueStatusInProgress}:   projects_enums.CapabilityEditIssue,
}

// InitialStatus is the only status an issue can be created in.
func InitialStatus() issues_enums.IssueStatus {
	return issues_enums.IssueStatusOpen
}

// RequiredCapability returns the capability a transition needs, and whether
// the transition is listed at all.
func RequiredCapability(
	from, to issues_enums.IssueStatus,
) (projects_enums.Capability, bool) {
	capability, ok := transitionTable[transitionKey{from, to}]
	return capability, ok
}

// CanTransition reports whether the (from, to) pair is legal.
func CanTransition(from, to issues_enums.IssueStatus) bool {
	_, ok := RequiredCapability(from, to)
	return ok
}

// AllowedTargets lists the statuses reachable from the given one.
func AllowedTargets(from issues_enums.IssueStatus) []issues_enums.IssueStatus {
	targets := make([]issues_enums.IssueStatus, 0, 2)
	for key := range transitionTable {
		if key.from == from {
			targets = append(targets, key.to)
		}
	}

	return targets
}

// Transition moves the issue to the target status on behalf of the acting
// membership. The issue is only mutated after both the transition-table
// check and the capability check pass; on error it is returned untouched.
// The caller persists the issue and publishes the returned event, in that
// order, inside one transactional boundary.
func Transition(
	issue *issues_models.Issue,
	target issues_enums.IssueStatus,
	actingMembership *projects_models.ProjectMembership,
	now time.Time,
) (*events.DomainEvent, error) {
	requiredCapability, listed := RequiredCapability(issue.Status, target)
	if !listed {
		return nil, ErrInvalidTransition
	}

	if !permissions.Authorize(actingMembership, requiredCapability) {
		return nil, permissions.ErrUnauthorized
	}

	oldStatus := issue.Status
	issue.Status = target
	issue.UpdatedAt = now

	switch {
	case target == issues_enums.IssueStatusResolved:
		if issue.ResolvedAt == nil {
			resolvedAt := now
			issue.ResolvedAt = &resolvedAt
		}
	case !target.IsResolvedClass():
		// Resolution only holds while the issue stays resolved-class.
		// RESOLVED -> CLOSED keeps the original resolvedAt.
		issue.ResolvedAt = nil
	}

	return events.NewEvent(
		events.KindIssueTransitioned,
		issue.ProjectID,
		actingMembership.UserID,
		events.IssueTransitionedPayload{
			IssueID:   issue.ID,
			OldStatus: oldStatus,
			NewStatus: target,
		},
	), nil
}
