package notifications

import (
	"encoding/json"
	"log/slog"
	"testing"

	"bughive/internal/features/events"
	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBody_IsDeterministicAndSecretBound(t *testing.T) {
	body := []byte(`{"kind":"IssueCreated"}`)

	first := signBody("secret-one", body)
	second := signBody("secret-one", body)
	other := signBody("secret-two", body)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Regexp(t, "^sha256=[0-9a-f]{64}$", first)
}

type fakeTaskQueue struct {
	tasks []*NotificationTask
}

func (q *fakeTaskQueue) Enqueue(task *NotificationTask) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeTaskQueue) IsAsync() bool { return false }
func (q *fakeTaskQueue) Close() error  { return nil }

func TestEventSubscriber_EnqueuesTaskWithEventPayload(t *testing.T) {
	queue := &fakeTaskQueue{}
	subscriber := &EventSubscriber{taskQueue: queue, logger: slog.Default()}

	issueID := uuid.New()
	event := events.NewEvent(
		events.KindIssueTransitioned,
		uuid.New(),
		uuid.New(),
		events.IssueTransitionedPayload{
			IssueID:   issueID,
			OldStatus: issues_enums.IssueStatusOpen,
			NewStatus: issues_enums.IssueStatusInProgress,
		},
	)

	subscriber.HandleEvent(event)

	require.Len(t, queue.tasks, 1)
	task := queue.tasks[0]
	assert.Equal(t, event.ID, task.EventID)
	assert.Equal(t, events.KindIssueTransitioned, task.Kind)
	assert.Equal(t, event.ProjectID, task.ProjectID)

	var payload events.IssueTransitionedPayload
	require.NoError(t, json.Unmarshal(task.Payload, &payload))
	assert.Equal(t, issueID, payload.IssueID)
	assert.Equal(t, issues_enums.IssueStatusInProgress, payload.NewStatus)
}
