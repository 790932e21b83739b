package notifications

import (
	"encoding/json"
	"log/slog"

	"bughive/internal/features/events"
)

// EventSubscriber forwards every domain event into the notification queue.
type EventSubscriber struct {
	taskQueue TaskQueue
	logger    *slog.Logger
}

func (s *EventSubscriber) HandleEvent(event *events.DomainEvent) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		s.logger.Error("failed to marshal event payload", "kind", event.Kind, "error", err)
		return
	}

	task := &NotificationTask{
		EventID:    event.ID,
		Kind:       event.Kind,
		ProjectID:  event.ProjectID,
		ActorID:    event.ActorID,
		OccurredAt: event.OccurredAt,
		Payload:    payload,
	}

	if err := s.taskQueue.Enqueue(task); err != nil {
		s.logger.Error("failed to enqueue notification", "kind", event.Kind, "error", err)
	}
}
