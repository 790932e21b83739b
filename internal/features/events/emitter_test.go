package events

import (
	"log/slog"
	"os"
	"testing"

	issues_enums "bughive/internal/features/issues/enums"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	name     string
	received []*DomainEvent
	order    *[]string
}

func (s *recordingSubscriber) HandleEvent(event *DomainEvent) {
	s.received = append(s.received, event)
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
}

type panickingSubscriber struct{}

func (s *panickingSubscriber) HandleEvent(event *DomainEvent) {
	panic("subscriber blew up")
}

func testDispatcher() *Dispatcher {
	return NewDispatcher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func Test_Publish_DeliversToAllSubscribersInOrder(t *testing.T) {
	dispatcher := testDispatcher()

	var order []string
	first := &recordingSubscriber{name: "first", order: &order}
	second := &recordingSubscriber{name: "second", order: &order}
	dispatcher.Subscribe(first)
	dispatcher.Subscribe(second)

	event := NewEvent(KindIssueTransitioned, uuid.New(), uuid.New(), IssueTransitionedPayload{
		IssueID:   uuid.New(),
		OldStatus: issues_enums.IssueStatusOpen,
		NewStatus: issues_enums.IssueStatusInProgress,
	})
	dispatcher.Publish(event)

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, event.ID, first.received[0].ID)
}

func Test_Publish_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	dispatcher := testDispatcher()

	survivor := &recordingSubscriber{name: "survivor"}
	dispatcher.Subscribe(&panickingSubscriber{})
	dispatcher.Subscribe(survivor)

	dispatcher.Publish(NewEvent(KindMemberRemoved, uuid.New(), uuid.New(), MemberRemovedPayload{
		UserID: uuid.New(),
	}))

	assert.Len(t, survivor.received, 1)
}

func Test_Publish_NoSubscribers_Noop(t *testing.T) {
	dispatcher := testDispatcher()

	assert.NotPanics(t, func() {
		dispatcher.Publish(NewEvent(KindIssueDeleted, uuid.New(), uuid.New(), IssueDeletedPayload{
			IssueID: uuid.New(),
		}))
	})
}

func Test_NewEvent_PopulatesIdentityAndTimestamp(t *testing.T) {
	projectID := uuid.New()
	actorID := uuid.New()

	event := NewEvent(KindMemberAdded, projectID, actorID, nil)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, projectID, event.ProjectID)
	assert.Equal(t, actorID, event.ActorID)
	assert.False(t, event.OccurredAt.IsZero())
}
