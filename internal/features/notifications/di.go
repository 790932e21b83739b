package notifications

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"bughive/internal/config"
	"bughive/internal/features/events"
	projects_services "bughive/internal/features/projects/services"
	"bughive/internal/util/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/time/rate"
)

var webhookRepository = &WebhookRepository{}

var deliveryService = &DeliveryService{
	webhookRepository: webhookRepository,
	client:            &http.Client{Timeout: 10 * time.Second},
	logger:            logger.GetLogger(),
	limiters:          make(map[uuid.UUID]*rate.Limiter),
}

var webhookService = &WebhookService{
	webhookRepository: webhookRepository,
	capabilityChecker: projects_services.GetMembershipService(),
	logger:            logger.GetLogger(),
}

var webhookController = &WebhookController{
	webhookService: webhookService,
}

var (
	taskQueue     TaskQueue
	worker        *Worker
	taskQueueOnce sync.Once
)

func valkeyClientOpt() asynq.RedisClientOpt {
	env := config.GetEnv()

	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", env.ValkeyHost, env.ValkeyPort),
		Username: env.ValkeyUsername,
		Password: env.ValkeyPassword,
	}
}

// GetTaskQueue initializes the queue on first use. Async mode runs on the
// shared Valkey instance, falling back to in-process delivery when the
// backend is unreachable or async mode is disabled.
func GetTaskQueue() TaskQueue {
	taskQueueOnce.Do(func() {
		log := logger.GetLogger()

		if config.GetEnv().IsNotificationsAsync {
			asyncQueue, err := NewAsyncQueue(valkeyClientOpt(), log)
			if err == nil {
				taskQueue = asyncQueue
				return
			}

			log.Warn("notification queue backend unavailable, using sync delivery", "error", err)
		}

		syncQueue := NewSyncQueue(log)
		syncQueue.SetProcessor(deliveryService.Deliver)
		taskQueue = syncQueue
	})

	return taskQueue
}

func GetWebhookService() *WebhookService {
	return webhookService
}

func GetWebhookController() *WebhookController {
	return webhookController
}

// SetupDependencies subscribes the notifier to domain events and registers
// webhook cleanup on project deletion. Called once from main.
func SetupDependencies() {
	events.GetDispatcher().Subscribe(&EventSubscriber{
		taskQueue: GetTaskQueue(),
		logger:    logger.GetLogger(),
	})

	projects_services.GetProjectService().AddDeletionListener(webhookService)
}

// StartWorker launches the asynq consumer when the queue is async.
// Call on exactly one instance.
func StartWorker() {
	if !GetTaskQueue().IsAsync() {
		return
	}

	worker = NewWorker(valkeyClientOpt(), logger.GetLogger())
	worker.SetProcessor(deliveryService.Deliver)
	worker.Start()
}

// StopWorker shuts the consumer down gracefully.
func StopWorker() {
	if worker != nil {
		worker.Stop()
	}
}
