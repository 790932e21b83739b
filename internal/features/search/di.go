package search

import (
	"net/http"
	"strings"
	"time"

	"bughive/internal/config"
	"bughive/internal/features/events"
	issues_repositories "bughive/internal/features/issues/repositories"
	projects_services "bughive/internal/features/projects/services"
	cache_utils "bughive/internal/util/cache"
	"bughive/internal/util/logger"
)

var searchRepository = &SearchRepository{
	client: &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     50,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   false, // Stick to HTTP/1.1 for OpenSearch
		},
	},
	baseURL:   strings.TrimRight(config.GetEnv().OpenSearchURL, "/"),
	indexName: "bughive-issues",
	logger:    logger.GetLogger(),
}

var indexWorkerService = &IndexWorkerService{
	searchRepository: searchRepository,
	issueLoader:      &issues_repositories.IssueRepository{},
	queueService:     cache_utils.NewValkeyQueueService(),
	logger:           logger.GetLogger(),
}

var searchService = &SearchService{
	searchRepository: searchRepository,
	accessChecker:    projects_services.GetMembershipService(),
}

var searchController = &SearchController{
	searchService: searchService,
}

var eventSubscriber = &EventSubscriber{
	indexWorker: indexWorkerService,
}

func GetSearchRepository() *SearchRepository {
	return searchRepository
}

func GetSearchService() *SearchService {
	return searchService
}

func GetIndexWorkerService() *IndexWorkerService {
	return indexWorkerService
}

func GetSearchController() *SearchController {
	return searchController
}

// SetupDependencies subscribes the indexer to domain events and registers
// index cleanup on project deletion. Called once from main.
func SetupDependencies() {
	events.GetDispatcher().Subscribe(eventSubscriber)
	projects_services.GetProjectService().AddDeletionListener(searchService)
}
