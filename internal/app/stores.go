package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

func wireScheduleStore(db *gorm.DB, log *logger.Logger, cfg Config) (schedulestore.Store, error) {
	backend, err := schedulestore.NormalizeBackend(cfg.ScheduleBackend)
	if err != nil {
		return nil, err
	}
	log.Info("Wiring schedule store...", "backend", backend)

	var store schedulestore.Store
	switch backend {
	case schedulestore.BackendBolt:
		store, err = schedulestore.NewBoltStore(log, cfg.BoltPath)
	case schedulestore.BackendRedis:
		store, err = schedulestore.NewRedisStore(log, schedulestore.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	case schedulestore.BackendPostgres:
		store, err = schedulestore.NewGormStore(db, log)
	default:
		store, err = schedulestore.NewFileStore(log, cfg.ScheduleFile)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s schedule store: %w", backend, err)
	}
	return store, nil
}
