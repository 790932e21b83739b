package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const TaskTypeNotification = "notification:deliver"

// TaskQueue decouples event publication from webhook delivery. The async
// implementation runs on Valkey via asynq, the sync one degrades to a
// goroutine per task when async mode is disabled.
type TaskQueue interface {
	Enqueue(task *NotificationTask) error
	IsAsync() bool
	Close() error
}

type AsyncQueue struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewAsyncQueue(redisOpt asynq.RedisClientOpt, logger *slog.Logger) (*AsyncQueue, error) {
	client := asynq.NewClient(redisOpt)

	inspector := asynq.NewInspector(redisOpt)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Error("failed to close asynq inspector", "error", err)
		}
	}()

	if _, err := inspector.Queues(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Error("failed to close asynq client", "error", closeErr)
		}

		return nil, fmt.Errorf("task queue backend unreachable: %w", err)
	}

	return &AsyncQueue{client: client, logger: logger}, nil
}

func (q *AsyncQueue) Enqueue(task *NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal notification task: %w", err)
	}

	info, err := q.client.Enqueue(
		asynq.NewTask(TaskTypeNotification, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	q.logger.Debug("notification task enqueued", "taskId", info.ID, "kind", task.Kind)

	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

type SyncQueue struct {
	processor func(context.Context, *NotificationTask) error
	logger    *slog.Logger
}

func NewSyncQueue(logger *slog.Logger) *SyncQueue {
	return &SyncQueue{logger: logger}
}

func (q *SyncQueue) SetProcessor(processor func(context.Context, *NotificationTask) error) {
	q.processor = processor
}

func (q *SyncQueue) Enqueue(task *NotificationTask) error {
	if q.processor == nil {
		q.logger.Warn("no notification processor set, task dropped", "kind", task.Kind)
		return nil
	}

	// Deliver off the request goroutine so callers never wait on webhooks.
	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			q.logger.Error("notification delivery failed", "kind", task.Kind, "error", err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
