package downdetect

import (
	"fmt"

	"bughive/internal/features/search"
	"bughive/internal/storage"
	cache_utils "bughive/internal/util/cache"
)

// DowndetectService answers whether every backing store the server
// depends on is reachable. Used as the readiness probe.
type DowndetectService struct {
	searchRepository *search.SearchRepository
}

func (s *DowndetectService) IsAvailable() error {
	if err := storage.GetDb().Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := s.testCacheConnection(); err != nil {
		return fmt.Errorf("cache check failed: %w", err)
	}

	if err := s.searchRepository.Ping(); err != nil {
		return fmt.Errorf("OpenSearch check failed: %w", err)
	}

	return nil
}

func (s *DowndetectService) testCacheConnection() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache connection test panicked: %v", r)
		}
	}()

	cache_utils.TestCacheConnection()
	return nil
}
