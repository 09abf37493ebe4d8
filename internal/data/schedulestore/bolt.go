package schedulestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

var scheduleBucket = []byte("schedule")

type boltStore struct {
	log *logger.Logger
	db  *bolt.DB
	key []byte
}

// NewBoltStore keeps the encoded schedule under one key of a bbolt file.
// Each Replace is a single bolt transaction.
func NewBoltStore(log *logger.Logger, path string) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if path == "" {
		return nil, fmt.Errorf("missing schedule bolt path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(scheduleBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bolt bucket: %w", err)
	}
	return &boltStore{
		log: log.With("store", "BoltScheduleStore", "path", path),
		db:  db,
		key: []byte(schedule.DefaultDocumentKey),
	}, nil
}

func (s *boltStore) Read(ctx context.Context) (types.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(scheduleBucket)
		if b == nil {
			return nil
		}
		// Values are only valid inside the transaction.
		if v := b.Get(s.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read schedule bolt: %w", err)
	}
	return schedule.Decode(data)
}

func (s *boltStore) Replace(ctx context.Context, sched types.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := schedule.Encode(sched)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(scheduleBucket)
		if err != nil {
			return err
		}
		return b.Put(s.key, data)
	}); err != nil {
		return fmt.Errorf("write schedule bolt: %w", err)
	}
	s.log.Debug("Schedule bolt key replaced", "tasks", len(sched))
	return nil
}

func (s *boltStore) Close() error { return s.db.Close() }
