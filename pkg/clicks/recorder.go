package clicks

import (
	"context"
	"errors"
	"maps"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Recorder stores a click after its link has been verified.
type Recorder interface {
	Record(ctx context.Context, c Click) error
}

// StatsReader exposes aggregated click counters.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// Stats holds click counters. Clicks without a product or store id only
// count towards Total.
type Stats struct {
	Total     int64           `json:"total"`
	ByProduct map[int64]int64 `json:"by_product"`
	ByStore   map[int64]int64 `json:"by_store"`
}

func newStats() Stats {
	return Stats{ByProduct: map[int64]int64{}, ByStore: map[int64]int64{}}
}

// MemoryRecorder counts clicks in process memory.
type MemoryRecorder struct {
	mu    sync.Mutex
	stats Stats
}

// NewMemoryRecorder returns an empty in-process recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{stats: newStats()}
}

// Record counts c towards the total and its product and store.
func (m *MemoryRecorder) Record(_ context.Context, c Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Total++
	if c.ProductID != 0 {
		m.stats.ByProduct[c.ProductID]++
	}
	if c.StoreID != 0 {
		m.stats.ByStore[c.StoreID]++
	}
	return nil
}

// Stats returns a copy of the counters.
func (m *MemoryRecorder) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Total:     m.stats.Total,
		ByProduct: maps.Clone(m.stats.ByProduct),
		ByStore:   maps.Clone(m.stats.ByStore),
	}, nil
}

// RedisRecorder keeps counters under prefix:total, prefix:products and
// prefix:stores. Counters for one click are updated in a single transaction.
type RedisRecorder struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRecorder stores counters in client under prefix, "clicks" when empty.
func NewRedisRecorder(client redis.UniversalClient, prefix string) *RedisRecorder {
	if prefix == "" {
		prefix = "clicks"
	}
	return &RedisRecorder{client: client, prefix: prefix}
}

func (r *RedisRecorder) key(name string) string { return r.prefix + ":" + name }

// Record increments the counters for c in one MULTI/EXEC transaction.
func (r *RedisRecorder) Record(ctx context.Context, c Click) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.key("total"))
		if c.ProductID != 0 {
			pipe.HIncrBy(ctx, r.key("products"), strconv.FormatInt(c.ProductID, 10), 1)
		}
		if c.StoreID != 0 {
			pipe.HIncrBy(ctx, r.key("stores"), strconv.FormatInt(c.StoreID, 10), 1)
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrRecorderFailure, err)
	}
	return nil
}

// Stats reads all counters. Missing keys count as zero.
func (r *RedisRecorder) Stats(ctx context.Context) (Stats, error) {
	stats := newStats()

	total, err := r.client.Get(ctx, r.key("total")).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Stats{}, err
	}
	stats.Total = total

	if err := r.readHash(ctx, r.key("products"), stats.ByProduct); err != nil {
		return Stats{}, err
	}
	if err := r.readHash(ctx, r.key("stores"), stats.ByStore); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (r *RedisRecorder) readHash(ctx context.Context, key string, dst map[int64]int64) error {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}
	for field, value := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return err
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		dst[id] = n
	}
	return nil
}
