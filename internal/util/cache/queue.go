package cache_utils

import (
	"context"
	"time"

	"bughive/internal/cache"

	"github.com/valkey-io/valkey-go"
)

// ValkeyQueueService is a small list-backed queue shared between API
// instances. The search indexer uses it to decouple event handling from
// OpenSearch bulk writes.
type ValkeyQueueService struct {
	client  valkey.Client
	timeout time.Duration
}

func NewValkeyQueueService() *ValkeyQueueService {
	return &ValkeyQueueService{
		client:  cache.GetCache(),
		timeout: DefaultQueueTimeout,
	}
}

func (q *ValkeyQueueService) EnqueueBatch(queueKey string, items [][]byte) error {
	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	cmds := make([]valkey.Completed, 0, len(items))

	for _, item := range items {
		cmd := q.client.B().Lpush().Key(queueKey).Element(string(item)).Build()
		cmds = append(cmds, cmd)
	}

	results := q.client.DoMulti(ctx, cmds...)

	for _, result := range results {
		if result.Error() != nil {
			return result.Error()
		}
	}

	return nil
}

// DequeueBatch pops up to maxCount items. RPOP returns one item at a time,
// so a pipeline of RPOPs is used; an empty queue ends the batch early.
func (q *ValkeyQueueService) DequeueBatch(queueKey string, maxCount int) ([][]byte, error) {
	if maxCount <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	var results [][]byte

	cmds := make([]valkey.Completed, 0, maxCount)
	for range maxCount {
		cmds = append(cmds, q.client.B().Rpop().Key(queueKey).Build())
	}

	responses := q.client.DoMulti(ctx, cmds...)

	for _, response := range responses {
		if response.Error() != nil {
			if response.Error() == valkey.Nil {
				break
			}
			return results, response.Error()
		}

		data, err := response.AsBytes()
		if err != nil {
			return results, err
		}

		results = append(results, data)
	}

	return results, nil
}

func (q *ValkeyQueueService) QueueLength(queueKey string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	result := q.client.Do(ctx, q.client.B().Llen().Key(queueKey).Build())
	if result.Error() != nil {
		return 0, result.Error()
	}

	return result.AsInt64()
}
