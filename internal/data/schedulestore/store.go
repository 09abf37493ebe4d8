package schedulestore

import (
	"context"
	"fmt"
	"io"
	"strings"

	types "github.com/yungbote/agenda-backend/internal/domain"
)

// Store owns the single schedule document.
//
// Read returns the empty schedule when nothing was ever written; that is a
// valid state, not an error. Replace overwrites the whole document and a
// concurrent Read observes either the old or the new document, never a mix.
// Replace does not serialize read-modify-write cycles across callers: two
// requests that both read and then replace race, and the later Replace wins.
type Store interface {
	Read(ctx context.Context) (types.Schedule, error)
	Replace(ctx context.Context, s types.Schedule) error
}

const (
	BackendFile     = "file"
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Close releases backend resources when the store holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func NormalizeBackend(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendBolt, "bbolt":
		return BackendBolt, nil
	case BackendRedis:
		return BackendRedis, nil
	case BackendPostgres, "db", "database":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unknown schedule backend %q", name)
	}
}
