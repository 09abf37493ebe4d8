package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/dbctx"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/agenda-backend/internal/services")

// DialogueResult is the outcome of one successful prompt run.
type DialogueResult struct {
	Response      string
	Kind          ResponseKind
	UserTurn      *types.Turn
	AssistantTurn *types.Turn
	// Schedule is the committed replacement, nil for conversational replies.
	Schedule types.Schedule
}

type DialogueService interface {
	// HandlePrompt runs one prompt through the pipeline. Steps run strictly
	// in order and the first failure ends the run; nothing already committed
	// is rolled back.
	HandlePrompt(ctx context.Context, prompt string) (*DialogueResult, error)
	History(ctx context.Context) ([]*types.Turn, error)
	CurrentSchedule(ctx context.Context) (types.Schedule, error)
}

type dialogueService struct {
	log       *logger.Logger
	turns     repos.TurnRepo
	schedule  schedulestore.Store
	assembler ContextAssembler
	gateway   CompletionGateway
	metrics   *observability.Metrics
}

func NewDialogueService(
	log *logger.Logger,
	turns repos.TurnRepo,
	store schedulestore.Store,
	assembler ContextAssembler,
	gateway CompletionGateway,
	metrics *observability.Metrics,
) DialogueService {
	return &dialogueService{
		log:       log.With("service", "DialogueService"),
		turns:     turns,
		schedule:  store,
		assembler: assembler,
		gateway:   gateway,
		metrics:   metrics,
	}
}

func (s *dialogueService) HandlePrompt(ctx context.Context, prompt string) (res *DialogueResult, err error) {
	ctx, span := tracer.Start(ctx, "dialogue.HandlePrompt")
	defer func() {
		outcome := "failed"
		var ve *ValidationError
		if errors.As(err, &ve) {
			outcome = "rejected"
		} else if err == nil && res != nil {
			outcome = string(res.Kind)
			span.SetAttributes(attribute.String("dialogue.kind", outcome))
		} else if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.ObserveDialogue(outcome)
		span.End()
	}()

	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	var userTurn *types.Turn
	if err := s.step(ctx, "persist_user_turn", func(ctx context.Context) error {
		t, err := s.turns.Append(dbctx.Context{Ctx: ctx}, types.RoleUser, prompt)
		userTurn = t
		return storageErr(OpAppendUserTurn, err)
	}); err != nil {
		return nil, err
	}

	var dc *DialogueContext
	if err := s.step(ctx, "build_context", func(ctx context.Context) error {
		var err error
		dc, err = s.assembler.Build(ctx, userTurn)
		return err
	}); err != nil {
		return nil, err
	}

	var raw string
	if err := s.step(ctx, "complete", func(ctx context.Context) error {
		var err error
		raw, err = s.gateway.Complete(ctx, dc.SystemInstruction, dc.History, dc.UserMessage)
		return err
	}); err != nil {
		return nil, err
	}

	cls := ClassifyResponse(raw)
	res = &DialogueResult{Kind: cls.Kind, UserTurn: userTurn}
	s.log.Debug("Completion classified", "kind", cls.Kind, "tasks", len(cls.Schedule))

	switch cls.Kind {
	case KindScheduleReplacement:
		if err := s.step(ctx, "commit_schedule", func(ctx context.Context) error {
			err := s.schedule.Replace(ctx, cls.Schedule)
			if err != nil {
				s.metrics.ObserveScheduleWrite("error")
			} else {
				s.metrics.ObserveScheduleWrite("ok")
			}
			return storageErr(OpReplaceSchedule, err)
		}); err != nil {
			return nil, err
		}
		res.Response = ScheduleUpdatedMessage
		res.Schedule = cls.Schedule
	default:
		res.Response = cls.Text
	}

	if err := s.step(ctx, "persist_assistant_turn", func(ctx context.Context) error {
		t, err := s.turns.Append(dbctx.Context{Ctx: ctx}, types.RoleAssistant, res.Response)
		res.AssistantTurn = t
		return storageErr(OpAppendAssistantTurn, err)
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// step runs fn under its own child span and logs the transition.
func (s *dialogueService) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "dialogue."+name, trace.WithAttributes(attribute.String("dialogue.step", name)))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error("Dialogue step failed", "step", name, "error", err)
		return err
	}
	s.log.Debug("Dialogue step done", "step", name)
	return nil
}

func (s *dialogueService) History(ctx context.Context) ([]*types.Turn, error) {
	turns, err := s.turns.AllTurns(dbctx.Context{Ctx: ctx})
	if err != nil {
		s.log.Error("Failed to read conversation history", "error", err)
		return nil, storageErr(OpReadAllTurns, err)
	}
	return turns, nil
}

func (s *dialogueService) CurrentSchedule(ctx context.Context) (types.Schedule, error) {
	sched, err := s.schedule.Read(ctx)
	if err != nil {
		s.log.Error("Failed to read schedule", "error", err)
		return nil, storageErr(OpReadSchedule, err)
	}
	return sched, nil
}

// IsScheduleWriteFailure reports whether err means the reply was a schedule
// replacement that could not be saved.
func IsScheduleWriteFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.IsScheduleWrite()
}
