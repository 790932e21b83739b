package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	issues_models "bughive/internal/features/issues/models"
	cache_utils "bughive/internal/util/cache"

	"github.com/google/uuid"
)

const (
	indexQueueKey           = "bughive:search:queue"
	indexBatchSize          = 500
	indexProcessingInterval = 1 * time.Second
)

const (
	actionIndex  = "index"
	actionDelete = "delete"
)

type indexTask struct {
	Action  string    `json:"action"`
	IssueID uuid.UUID `json:"issueId"`
}

type issueLoader interface {
	GetIssueByID(issueID uuid.UUID) (*issues_models.Issue, error)
}

// IndexWorkerService keeps the search index in sync with the database.
// Producers enqueue index tasks into a shared Valkey queue, a single
// worker instance drains it in batches and bulk-writes to OpenSearch.
// Call StartWorker on exactly one instance to avoid duplicate indexing.
type IndexWorkerService struct {
	searchRepository *SearchRepository
	issueLoader      issueLoader
	queueService     *cache_utils.ValkeyQueueService
	logger           *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (s *IndexWorkerService) QueueIndex(issueID uuid.UUID) {
	s.enqueue(indexTask{Action: actionIndex, IssueID: issueID})
}

func (s *IndexWorkerService) QueueDelete(issueID uuid.UUID) {
	s.enqueue(indexTask{Action: actionDelete, IssueID: issueID})
}

func (s *IndexWorkerService) enqueue(task indexTask) {
	payload, err := json.Marshal(task)
	if err != nil {
		s.logger.Error("failed to marshal index task", "error", err)
		return
	}

	if err := s.queueService.EnqueueBatch(indexQueueKey, [][]byte{payload}); err != nil {
		s.logger.Error("failed to enqueue index task", "issueId", task.IssueID, "error", err)
	}
}

func (s *IndexWorkerService) StartWorker() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.runIndexWorker()

	s.logger.Info("search index worker started",
		slog.Duration("interval", indexProcessingInterval),
		slog.Int("batchSize", indexBatchSize),
	)
}

func (s *IndexWorkerService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()
}

// ProcessQueueOnce drains one batch synchronously. Used by tests.
func (s *IndexWorkerService) ProcessQueueOnce() {
	s.processQueue()
}

func (s *IndexWorkerService) runIndexWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(indexProcessingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("search index worker shutting down")
			return

		case <-ticker.C:
			s.processQueue()
		}
	}
}

func (s *IndexWorkerService) processQueue() {
	serializedTasks, err := s.queueService.DequeueBatch(indexQueueKey, indexBatchSize)
	if err != nil {
		s.logger.Error("failed to dequeue index tasks", "error", err)
		return
	}

	if len(serializedTasks) == 0 {
		return
	}

	// Later tasks win, so a delete after an index drops the document.
	latestActions := make(map[uuid.UUID]string, len(serializedTasks))
	for _, data := range serializedTasks {
		var task indexTask
		if err := json.Unmarshal(data, &task); err != nil {
			s.logger.Error("failed to unmarshal index task", "error", err)
			continue
		}

		latestActions[task.IssueID] = task.Action
	}

	var toIndex []*IssueDocument
	var toDelete []uuid.UUID

	for issueID, action := range latestActions {
		if action == actionDelete {
			toDelete = append(toDelete, issueID)
			continue
		}

		issue, err := s.issueLoader.GetIssueByID(issueID)
		if err != nil {
			s.logger.Error("failed to load issue for indexing", "issueId", issueID, "error", err)
			continue
		}

		if issue == nil {
			// Deleted between enqueue and processing.
			toDelete = append(toDelete, issueID)
			continue
		}

		toIndex = append(toIndex, issueToDocument(issue))
	}

	if err := s.searchRepository.BulkIndex(toIndex); err != nil {
		s.logger.Error("failed to bulk index issues", "count", len(toIndex), "error", err)
	}

	if err := s.searchRepository.DeleteIssues(toDelete); err != nil {
		s.logger.Error("failed to delete issues from index", "count", len(toDelete), "error", err)
	}
}

func issueToDocument(issue *issues_models.Issue) *IssueDocument {
	return &IssueDocument{
		ID:          issue.ID,
		ProjectID:   issue.ProjectID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status,
		Priority:    issue.Priority,
		Severity:    issue.Severity,
		Type:        issue.Type,
		Tags:        issue.Tags,
		ReporterID:  issue.ReporterID,
		AssigneeID:  issue.AssigneeID,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}
