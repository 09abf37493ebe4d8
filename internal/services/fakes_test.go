package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/platform/dbctx"
)

var errBoom = errors.New("boom")

type memTurnRepo struct {
	mu        sync.Mutex
	turns     []*types.Turn
	next      uint64
	clock     time.Time
	appendErr func(role string) error
	readErr   error
}

func newMemTurnRepo() *memTurnRepo {
	return &memTurnRepo{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (r *memTurnRepo) Append(_ dbctx.Context, role, content string) (*types.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		if err := r.appendErr(role); err != nil {
			return nil, err
		}
	}
	r.next++
	r.clock = r.clock.Add(time.Second)
	t := &types.Turn{ID: r.next, Role: role, Content: content, CreatedAt: r.clock}
	r.turns = append(r.turns, t)
	return t, nil
}

func (r *memTurnRepo) RecentTurns(_ dbctx.Context, limit int, order repos.TurnOrder) ([]*types.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	if limit <= 0 {
		return []*types.Turn{}, nil
	}
	start := len(r.turns) - limit
	if start < 0 {
		start = 0
	}
	out := append([]*types.Turn(nil), r.turns[start:]...)
	if order == repos.OrderNewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *memTurnRepo) RecentTurnsBefore(_ dbctx.Context, before *types.Turn, limit int, order repos.TurnOrder) ([]*types.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []*types.Turn
	for _, t := range r.turns {
		if t.Before(before) {
			out = append(out, t)
		}
	}
	if limit <= 0 {
		return []*types.Turn{}, nil
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	out = append([]*types.Turn(nil), out...)
	if order == repos.OrderNewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *memTurnRepo) AllTurns(_ dbctx.Context) ([]*types.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	return append([]*types.Turn(nil), r.turns...), nil
}

func (r *memTurnRepo) seed(roles ...string) {
	for i, role := range roles {
		_, _ = r.Append(dbctx.Context{}, role, role+"-"+string(rune('a'+i)))
	}
}

type memStore struct {
	mu         sync.Mutex
	sched      types.Schedule
	replaced   int
	readErr    error
	replaceErr error
}

func (s *memStore) Read(context.Context) (types.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.sched == nil {
		return types.Schedule{}, nil
	}
	return append(types.Schedule(nil), s.sched...), nil
}

func (s *memStore) Replace(_ context.Context, sched types.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced++
	s.sched = append(types.Schedule{}, sched...)
	return nil
}

type gatewayCall struct {
	System  string
	History []Message
	User    string
}

type fakeGateway struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []gatewayCall
}

func (g *fakeGateway) Complete(_ context.Context, system string, history []Message, user string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{System: system, History: history, User: user})
	if g.err != nil {
		return "", &CompletionError{Provider: "fake", Err: g.err}
	}
	return g.reply, nil
}
