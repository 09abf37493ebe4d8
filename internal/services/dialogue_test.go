package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type dialogueFixture struct {
	turns   *memTurnRepo
	store   *memStore
	gateway *fakeGateway
	svc     DialogueService
}

func newDialogueFixture(reply string) *dialogueFixture {
	f := &dialogueFixture{
		turns:   newMemTurnRepo(),
		store:   &memStore{},
		gateway: &fakeGateway{reply: reply},
	}
	asm := newTestAssembler(f.turns, f.store, DefaultHistoryWindow)
	f.svc = NewDialogueService(logger.Nop(), f.turns, f.store, asm, f.gateway, observability.NewMetrics())
	return f
}

const dentistReply = `[{"id":1,"description":"Dentist","startTime":"2026-03-02T15:00:00-05:00","status":"pending"}]`

func TestHandlePromptScheduleReplacement(t *testing.T) {
	f := newDialogueFixture(dentistReply)

	res, err := f.svc.HandlePrompt(context.Background(), "Add dentist tomorrow at 3pm")
	require.NoError(t, err)
	assert.Equal(t, KindScheduleReplacement, res.Kind)
	assert.Equal(t, ScheduleUpdatedMessage, res.Response)

	sched, err := f.store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, sched, 1)
	assert.Equal(t, "Dentist", sched[0].Description)
	assert.Equal(t, "2026-03-02T15:00:00-05:00", sched[0].StartTime)
	assert.Equal(t, types.TaskStatusPending, sched[0].Status)

	hist, err := f.svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, types.RoleUser, hist[0].Role)
	assert.Equal(t, "Add dentist tomorrow at 3pm", hist[0].Content)
	assert.Equal(t, types.RoleAssistant, hist[1].Role)
	assert.Equal(t, ScheduleUpdatedMessage, hist[1].Content)
	for _, turn := range hist {
		assert.False(t, strings.HasPrefix(strings.TrimSpace(turn.Content), "["), "raw schedule json leaked into the log")
	}
}

func TestHandlePromptConversational(t *testing.T) {
	f := newDialogueFixture("Hello! How can I help?")

	res, err := f.svc.HandlePrompt(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, KindConversational, res.Kind)
	assert.Equal(t, "Hello! How can I help?", res.Response)
	assert.Nil(t, res.Schedule)
	assert.Equal(t, 0, f.store.replaced)
	require.NotNil(t, res.AssistantTurn)
	assert.Equal(t, "Hello! How can I help?", res.AssistantTurn.Content)
}

func TestHandlePromptEmptyArrayClearsSchedule(t *testing.T) {
	f := newDialogueFixture("[]")
	f.store.sched = types.Schedule{{Description: "Gym"}}

	res, err := f.svc.HandlePrompt(context.Background(), "clear everything")
	require.NoError(t, err)
	assert.Equal(t, KindScheduleReplacement, res.Kind)
	sched, err := f.store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sched)
}

func TestHandlePromptRejectsBlankPrompt(t *testing.T) {
	for _, p := range []string{"", "   ", "\n\t"} {
		f := newDialogueFixture("unused")
		_, err := f.svc.HandlePrompt(context.Background(), p)
		require.ErrorIs(t, err, ErrEmptyPrompt)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Empty(t, f.turns.turns)
		assert.Empty(t, f.gateway.calls)
	}
}

func TestHandlePromptGatewayFailure(t *testing.T) {
	f := newDialogueFixture("")
	f.gateway.err = errBoom

	_, err := f.svc.HandlePrompt(context.Background(), "hi")
	var ce *CompletionError
	require.ErrorAs(t, err, &ce)

	// The user turn stays; no assistant turn and no schedule write.
	require.Len(t, f.turns.turns, 1)
	assert.Equal(t, types.RoleUser, f.turns.turns[0].Role)
	assert.Equal(t, 0, f.store.replaced)
}

func TestHandlePromptScheduleWriteFailure(t *testing.T) {
	f := newDialogueFixture(dentistReply)
	f.store.sched = types.Schedule{{Description: "Gym"}}
	f.store.replaceErr = errBoom

	_, err := f.svc.HandlePrompt(context.Background(), "Add dentist")
	require.Error(t, err)
	assert.True(t, IsScheduleWriteFailure(err))
	assert.ErrorIs(t, err, errBoom)

	require.Len(t, f.turns.turns, 1, "no assistant turn after a failed schedule write")
	f.store.replaceErr = nil
	sched, _ := f.store.Read(context.Background())
	require.Len(t, sched, 1)
	assert.Equal(t, "Gym", sched[0].Description)
}

func TestHandlePromptUserAppendFailure(t *testing.T) {
	f := newDialogueFixture("unused")
	f.turns.appendErr = func(string) error { return errBoom }

	_, err := f.svc.HandlePrompt(context.Background(), "hi")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpAppendUserTurn, se.Op)
	assert.Empty(t, f.gateway.calls)
}

func TestHandlePromptAssistantAppendFailure(t *testing.T) {
	f := newDialogueFixture(dentistReply)
	f.turns.appendErr = func(role string) error {
		if role == types.RoleAssistant {
			return errBoom
		}
		return nil
	}

	_, err := f.svc.HandlePrompt(context.Background(), "Add dentist")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpAppendAssistantTurn, se.Op)
	// The schedule commit is not rolled back.
	assert.Equal(t, 1, f.store.replaced)
}

func TestHandlePromptSendsPriorHistory(t *testing.T) {
	f := newDialogueFixture("ok")
	ctx := context.Background()

	_, err := f.svc.HandlePrompt(ctx, "first")
	require.NoError(t, err)
	_, err = f.svc.HandlePrompt(ctx, "second")
	require.NoError(t, err)

	require.Len(t, f.gateway.calls, 2)
	assert.Empty(t, f.gateway.calls[0].History)
	assert.Equal(t, []Message{
		{Role: types.RoleUser, Content: "first"},
		{Role: types.RoleAssistant, Content: "ok"},
	}, f.gateway.calls[1].History)
	assert.True(t, strings.HasSuffix(f.gateway.calls[1].User, "USER REQUEST:\nsecond"))
}

func TestHandlePromptConcurrentRuns(t *testing.T) {
	f := newDialogueFixture("ok")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.HandlePrompt(context.Background(), "ping")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	hist, err := f.svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, hist, 16)
	for i := 1; i < len(hist); i++ {
		assert.True(t, hist[i-1].Before(hist[i]))
	}
}

func TestCurrentScheduleError(t *testing.T) {
	f := newDialogueFixture("")
	f.store.readErr = errBoom
	_, err := f.svc.CurrentSchedule(context.Background())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpReadSchedule, se.Op)
}
