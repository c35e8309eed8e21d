package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

const (
	// StatsKey holds the cached aggregate for GET stats.
	StatsKey = "gerenciador:stats"
	// StatsGenKey counts invalidations. A computed aggregate is only stored
	// if no invalidation happened since it was started.
	StatsGenKey = "gerenciador:stats:gen"
)

// StatsCache caches the stats aggregate between writes.
type StatsCache interface {
	// GetStats reports false when nothing is cached.
	GetStats(ctx context.Context) (models.Stats, bool, error)
	// StatsGeneration must be read before computing the value later passed
	// to SetStats.
	StatsGeneration(ctx context.Context) (int64, error)
	// SetStats stores s unless the generation moved past gen.
	SetStats(ctx context.Context, gen int64, s models.Stats) error
	InvalidateStats(ctx context.Context) error
}

type RedisService struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisService(rdb *redis.Client, ttl time.Duration) *RedisService {
	return &RedisService{
		rdb: rdb,
		ttl: ttl,
	}
}

// Dial connects to Redis and checks it answers.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) GetStats(ctx context.Context) (models.Stats, bool, error) {
	data, err := s.rdb.Get(ctx, StatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Stats{}, false, nil
	}
	if err != nil {
		return models.Stats{}, false, fmt.Errorf("reading cached stats: %w", err)
	}

	var st models.Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return models.Stats{}, false, fmt.Errorf("decoding cached stats: %w", err)
	}
	return st, true, nil
}

func (s *RedisService) StatsGeneration(ctx context.Context) (int64, error) {
	gen, err := s.rdb.Get(ctx, StatsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading stats generation: %w", err)
	}
	return gen, nil
}

func (s *RedisService) SetStats(ctx context.Context, gen int64, st models.Stats) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, StatsGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, StatsKey, data, s.ttl)
			return nil
		})
		return err
	}, StatsGenKey)
	// An invalidation landed between the check and the write.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("caching stats: %w", err)
	}
	return nil
}

func (s *RedisService) InvalidateStats(ctx context.Context) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, StatsGenKey)
		pipe.Del(ctx, StatsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating cached stats: %w", err)
	}
	return nil
}

// NoopStatsCache never caches anything. It is used when Redis is not configured.
type NoopStatsCache struct{}

func (NoopStatsCache) GetStats(context.Context) (models.Stats, bool, error) {
	return models.Stats{}, false, nil
}

func (NoopStatsCache) StatsGeneration(context.Context) (int64, error) { return 0, nil }

func (NoopStatsCache) SetStats(context.Context, int64, models.Stats) error { return nil }

func (NoopStatsCache) InvalidateStats(context.Context) error { return nil }
