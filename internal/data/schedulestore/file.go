package schedulestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type fileStore struct {
	log  *logger.Logger
	path string
	mu   sync.RWMutex
}

// NewFileStore keeps the schedule as a pretty-printed JSON file at path.
// The parent directory is created on first write.
func NewFileStore(log *logger.Logger, path string) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if path == "" {
		return nil, fmt.Errorf("missing schedule file path")
	}
	return &fileStore{log: log.With("store", "FileScheduleStore", "path", path), path: path}, nil
}

func (s *fileStore) Read(ctx context.Context) (types.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Schedule{}, nil
		}
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return schedule.Decode(data)
}

func (s *fileStore) Replace(ctx context.Context, sched types.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := schedule.Encode(sched)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write schedule file: %w", err)
	}
	s.log.Debug("Schedule file replaced", "tasks", len(sched), "bytes", len(data))
	return nil
}

// writeFileAtomic writes to a temp file in the target directory, syncs it
// and renames it over path. The old file stays intact on any failure.
func writeFileAtomic(path string, content []byte, perm os.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	success := false
	defer func() {
		if !success {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(perm); err != nil {
		return err
	}
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return err
	}
	success = true
	return nil
}
