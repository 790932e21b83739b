package audit_logs

import (
	"testing"

	"bughive/internal/features/events"
	issues_enums "bughive/internal/features/issues/enums"
	projects_enums "bughive/internal/features/projects/enums"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRenderEventMessage_CoversEveryPayload(t *testing.T) {
	issueID := uuid.New()
	userID := uuid.New()
	commentID := uuid.New()

	cases := []struct {
		name     string
		payload  any
		expected string
	}{
		{
			"issue created",
			events.IssueCreatedPayload{IssueID: issueID, Title: "Crash"},
			`Issue "Crash" created (` + issueID.String() + `)`,
		},
		{
			"issue transitioned",
			events.IssueTransitionedPayload{
				IssueID:   issueID,
				OldStatus: issues_enums.IssueStatusOpen,
				NewStatus: issues_enums.IssueStatusInProgress,
			},
			"Issue " + issueID.String() + " moved from OPEN to IN_PROGRESS",
		},
		{
			"issue unassigned",
			events.IssueAssignedPayload{IssueID: issueID},
			"Issue " + issueID.String() + " unassigned",
		},
		{
			"issue commented",
			events.IssueCommentedPayload{IssueID: issueID, CommentID: commentID},
			"Comment " + commentID.String() + " added to issue " + issueID.String(),
		},
		{
			"member added",
			events.MemberAddedPayload{UserID: userID, Role: projects_enums.ProjectRoleDeveloper},
			"User " + userID.String() + " added to project with role DEVELOPER",
		},
		{
			"member removed",
			events.MemberRemovedPayload{UserID: userID},
			"User " + userID.String() + " removed from project",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			event := events.NewEvent(events.KindIssueCreated, uuid.New(), userID, testCase.payload)
			assert.Equal(t, testCase.expected, renderEventMessage(event))
		})
	}
}

func TestRenderEventMessage_UnknownPayloadIsSkipped(t *testing.T) {
	event := events.NewEvent(events.KindIssueCreated, uuid.New(), uuid.New(), struct{}{})
	assert.Empty(t, renderEventMessage(event))
}
