package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/platform/dbctx"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type Order int

const (
	// OrderChronological returns oldest first, ready to use as dialogue context.
	OrderChronological Order = iota
	// OrderNewestFirst returns the raw recency-ordered read.
	OrderNewestFirst
)

const maxRecentTurns = 500

type TurnRepo interface {
	Append(dbc dbctx.Context, role string, content string) (*types.Turn, error)
	RecentTurns(dbc dbctx.Context, limit int, order Order) ([]*types.Turn, error)
	// RecentTurnsBefore is RecentTurns restricted to turns that sort strictly
	// before the given turn, so turns appended after it never crowd the window.
	RecentTurnsBefore(dbc dbctx.Context, before *types.Turn, limit int, order Order) ([]*types.Turn, error)
	AllTurns(dbc dbctx.Context) ([]*types.Turn, error)
}

type turnRepo struct {
	db  *gorm.DB
	log *logger.Logger

	// mu spans timestamp assignment and the insert, so the log order,
	// the created_at order and the id order always agree.
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewTurnRepo(db *gorm.DB, baseLog *logger.Logger) TurnRepo {
	return newTurnRepo(db, baseLog, time.Now)
}

func newTurnRepo(db *gorm.DB, baseLog *logger.Logger, now func() time.Time) *turnRepo {
	return &turnRepo{db: db, log: baseLog.With("repo", "TurnRepo"), now: now}
}

// nextTimestamp returns a strictly increasing microsecond-precision time.
// Callers hold r.mu.
func (r *turnRepo) nextTimestamp() time.Time {
	ts := r.now().UTC().Truncate(time.Microsecond)
	if !ts.After(r.last) {
		ts = r.last.Add(time.Microsecond)
	}
	r.last = ts
	return ts
}

func (r *turnRepo) tx(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *turnRepo) Append(dbc dbctx.Context, role string, content string) (*types.Turn, error) {
	role = strings.TrimSpace(role)
	if !types.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := &types.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: r.nextTimestamp(),
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	return row, nil
}

func (r *turnRepo) RecentTurns(dbc dbctx.Context, limit int, order Order) ([]*types.Turn, error) {
	return r.recent(r.tx(dbc), limit, order)
}

func (r *turnRepo) RecentTurnsBefore(dbc dbctx.Context, before *types.Turn, limit int, order Order) ([]*types.Turn, error) {
	if before == nil {
		return nil, fmt.Errorf("read turns before: anchor turn is nil")
	}
	q := r.tx(dbc).Where(
		"created_at < ? OR (created_at = ? AND id < ?)",
		before.CreatedAt, before.CreatedAt, before.ID,
	)
	return r.recent(q, limit, order)
}

func (r *turnRepo) recent(q *gorm.DB, limit int, order Order) ([]*types.Turn, error) {
	if limit <= 0 {
		return []*types.Turn{}, nil
	}
	if limit > maxRecentTurns {
		limit = maxRecentTurns
	}
	var out []*types.Turn
	if err := q.
		Model(&types.Turn{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read recent turns: %w", err)
	}
	if order == OrderChronological {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *turnRepo) AllTurns(dbc dbctx.Context) ([]*types.Turn, error) {
	var out []*types.Turn
	if err := r.tx(dbc).
		Model(&types.Turn{}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("read all turns: %w", err)
	}
	return out, nil
}
