package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/hibiken/asynq"
)

// Worker consumes notification tasks from the asynq queue and hands them
// to the delivery service. Only used in async mode.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *NotificationTask) error
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewWorker(redisOpt asynq.RedisClientOpt, logger *slog.Logger) *Worker {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("notification task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
}

func (w *Worker) SetProcessor(processor func(context.Context, *NotificationTask) error) {
	w.processor = processor
}

func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}

	w.mux.HandleFunc(TaskTypeNotification, w.handleNotificationTask)
	w.running = true

	go func() {
		w.logger.Info("notification worker started")

		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("notification worker stopped", "error", err)
		}
	}()
}

func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false
}

func (w *Worker) handleNotificationTask(ctx context.Context, t *asynq.Task) error {
	var task NotificationTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("failed to unmarshal notification task", "error", err)
		return err
	}

	if w.processor == nil {
		w.logger.Warn("no notification processor set")
		return nil
	}

	return w.processor(ctx, &task)
}
