package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is one flattened record state at a point in time
type Snapshot struct {
	Scope     string             `json:"scope"`
	Values    map[string]float64 `json:"values"`
	Timestamp time.Time          `json:"timestamp"`
}

// Request filters stored snapshots
type Request struct {
	Scope     string    `json:"scope"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Limit     int       `json:"limit"`
}

// Storage persists exported snapshots for external monitoring
type Storage interface {
	Store(snapshots []Snapshot) error
	Query(req Request) ([]Snapshot, error)
	Close() error
}

// MemoryStorage keeps snapshots in memory
type MemoryStorage struct {
	snapshots []Snapshot
	mu        sync.RWMutex
}

// NewMemoryStorage creates a new memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snapshots: make([]Snapshot, 0),
	}
}

// Store appends snapshots
func (m *MemoryStorage) Store(snapshots []Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshots...)
	return nil
}

// Query returns matching snapshots ordered by timestamp
func (m *MemoryStorage) Query(req Request) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Snapshot
	for _, s := range m.snapshots {
		if matches(s, req) {
			result = append(result, s)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}

	return result, nil
}

// Close releases the stored snapshots
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = nil
	return nil
}

func matches(s Snapshot, req Request) bool {
	if req.Scope != "" && s.Scope != req.Scope {
		return false
	}
	if !req.StartTime.IsZero() && s.Timestamp.Before(req.StartTime) {
		return false
	}
	if !req.EndTime.IsZero() && s.Timestamp.After(req.EndTime) {
		return false
	}
	return true
}

// RedisStorage keeps snapshots in per-scope Redis sorted sets scored by
// timestamp, with a retention TTL
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRedisStorage creates a Redis storage. The client is managed by the
// caller.
func NewRedisStorage(client *redis.Client, keyPrefix string, retention time.Duration) *RedisStorage {
	if keyPrefix == "" {
		keyPrefix = "perfgauge"
	}
	return &RedisStorage{
		client:    client,
		keyPrefix: keyPrefix,
		retention: retention,
	}
}

// Store writes snapshots through a pipeline
func (r *RedisStorage) Store(snapshots []Snapshot) error {
	ctx := context.Background()
	pipe := r.client.Pipeline()

	for _, s := range snapshots {
		key := r.key(s.Scope)
		data, err := json.Marshal(s)
		if err != nil {
			continue
		}

		pipe.ZAdd(ctx, key, redis.Z{Score: float64(s.Timestamp.Unix()), Member: string(data)})
		if r.retention > 0 {
			pipe.Expire(ctx, key, r.retention)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Query reads snapshots for a scope within the request's time range
func (r *RedisStorage) Query(req Request) ([]Snapshot, error) {
	ctx := context.Background()

	minScore, maxScore := "-inf", "+inf"
	if !req.StartTime.IsZero() {
		minScore = fmt.Sprintf("%d", req.StartTime.Unix())
	}
	if !req.EndTime.IsZero() {
		maxScore = fmt.Sprintf("%d", req.EndTime.Unix())
	}

	members, err := r.client.ZRangeByScore(ctx, r.key(req.Scope), &redis.ZRangeBy{
		Min: minScore,
		Max: maxScore,
	}).Result()
	if err != nil {
		return nil, err
	}

	var result []Snapshot
	for _, member := range members {
		var s Snapshot
		if err := json.Unmarshal([]byte(member), &s); err != nil {
			continue
		}
		result = append(result, s)
	}

	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}

	return result, nil
}

// Close is a no-op; the Redis client is managed externally
func (r *RedisStorage) Close() error {
	return nil
}

func (r *RedisStorage) key(scope string) string {
	return fmt.Sprintf("%s:snapshots:%s", r.keyPrefix, scope)
}
