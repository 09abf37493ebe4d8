package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
	"github.com/yungbote/agenda-backend/internal/platform/dbctx"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

const DefaultHistoryWindow = 20

// DialogueContext is everything one completion call needs. It lives only for
// the duration of a single request.
type DialogueContext struct {
	SystemInstruction string
	History           []Message
	UserMessage       string
	Schedule          types.Schedule
}

type ContextAssembler interface {
	// Build assembles context for current, the user turn already appended
	// for this request. current itself is never part of History.
	Build(ctx context.Context, current *types.Turn) (*DialogueContext, error)
}

type contextAssembler struct {
	log    *logger.Logger
	turns  repos.TurnRepo
	store  schedulestore.Store
	window int
	now    func() time.Time
	loc    *time.Location
}

type AssemblerOptions struct {
	Window   int
	Location *time.Location
	Now      func() time.Time
}

func NewContextAssembler(log *logger.Logger, turns repos.TurnRepo, store schedulestore.Store, opts AssemblerOptions) ContextAssembler {
	window := opts.Window
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &contextAssembler{
		log:    log.With("service", "ContextAssembler"),
		turns:  turns,
		store:  store,
		window: window,
		now:    now,
		loc:    loc,
	}
}

func (a *contextAssembler) Build(ctx context.Context, current *types.Turn) (*DialogueContext, error) {
	if current == nil {
		return nil, fmt.Errorf("build context: current turn is nil")
	}

	prior, err := a.turns.RecentTurnsBefore(dbctx.Context{Ctx: ctx}, current, a.window, repos.OrderChronological)
	if err != nil {
		return nil, storageErr(OpReadRecentTurns, err)
	}
	history := RepairHistory(prior)

	sched, err := a.store.Read(ctx)
	if err != nil {
		return nil, storageErr(OpReadSchedule, err)
	}
	encoded, err := schedule.Encode(sched)
	if err != nil {
		return nil, storageErr(OpReadSchedule, err)
	}

	a.log.Debug("Context built",
		"window", a.window,
		"history_len", len(history),
		"dropped", len(prior)-len(history),
		"tasks", len(sched),
	)
	return &DialogueContext{
		SystemInstruction: SystemInstruction(a.now().In(a.loc)),
		History:           history,
		UserMessage:       ComposeUserMessage(encoded, current.Content),
		Schedule:          sched,
	}, nil
}

// RepairHistory drops every turn before the first user turn so the history
// handed to the completion engine always opens with the user. With no user
// turn at all the result is empty. Input must be chronological.
func RepairHistory(turns []*types.Turn) []Message {
	start := -1
	for i, t := range turns {
		if t != nil && t.Role == types.RoleUser {
			start = i
			break
		}
	}
	if start < 0 {
		return []Message{}
	}
	out := make([]Message, 0, len(turns)-start)
	for _, t := range turns[start:] {
		if t == nil {
			continue
		}
		out = append(out, Message{Role: t.Role, Content: t.Content})
	}
	return out
}
