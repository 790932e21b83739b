package search

import (
	"bughive/internal/features/events"
)

// EventSubscriber feeds issue changes into the index queue.
type EventSubscriber struct {
	indexWorker *IndexWorkerService
}

func (s *EventSubscriber) HandleEvent(event *events.DomainEvent) {
	switch payload := event.Payload.(type) {
	case events.IssueCreatedPayload:
		s.indexWorker.QueueIndex(payload.IssueID)
	case events.IssueUpdatedPayload:
		s.indexWorker.QueueIndex(payload.IssueID)
	case events.IssueAssignedPayload:
		s.indexWorker.QueueIndex(payload.IssueID)
	case events.IssueTransitionedPayload:
		s.indexWorker.QueueIndex(payload.IssueID)
	case events.IssueDeletedPayload:
		s.indexWorker.QueueDelete(payload.IssueID)
	}
}
