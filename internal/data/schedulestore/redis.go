package schedulestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
}

// NewRedisStore keeps the encoded schedule in a single string key. SET is
// atomic, so readers never see a partial document.
func NewRedisStore(log *logger.Logger, opts RedisOptions) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := opts.Key
	if key == "" {
		key = "agenda:schedule:" + schedule.DefaultDocumentKey
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{
		log: log.With("store", "RedisScheduleStore", "key", key),
		rdb: rdb,
		key: key,
	}, nil
}

func (s *redisStore) Read(ctx context.Context) (types.Schedule, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return types.Schedule{}, nil
		}
		return nil, fmt.Errorf("read schedule redis: %w", err)
	}
	return schedule.Decode(data)
}

func (s *redisStore) Replace(ctx context.Context, sched types.Schedule) error {
	data, err := schedule.Encode(sched)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write schedule redis: %w", err)
	}
	s.log.Debug("Schedule redis key replaced", "tasks", len(sched))
	return nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }
