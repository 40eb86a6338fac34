package events

import (
	"context"
	"errors"
	"sync"
)

var ErrMissingPartitionKey = errors.New("partition key is required")

type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// MemorySequence hands out per-partition sequence numbers starting at 1.
// Numbers are lost on restart.
type MemorySequence struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{last: make(map[string]int64)}
}

func (s *MemorySequence) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, ErrMissingPartitionKey
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[partitionKey]++
	return s.last[partitionKey], nil
}
