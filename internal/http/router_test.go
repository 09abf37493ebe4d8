package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/agenda-backend/internal/data/repos"
	"github.com/yungbote/agenda-backend/internal/data/repos/testutil"
	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	httpH "github.com/yungbote/agenda-backend/internal/http/handlers"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/services"
)

type scriptedGateway struct {
	replies []string
	users   []string
}

func (g *scriptedGateway) Complete(_ context.Context, _ string, _ []services.Message, user string) (string, error) {
	g.users = append(g.users, user)
	if len(g.replies) == 0 {
		return "", &services.CompletionError{Provider: "scripted", Err: context.DeadlineExceeded}
	}
	out := g.replies[0]
	g.replies = g.replies[1:]
	return out, nil
}

func newTestRouter(t *testing.T, gw services.CompletionGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	turns := repos.NewTurnRepo(testutil.DB(t), log)
	store, err := schedulestore.NewFileStore(log, filepath.Join(t.TempDir(), "schedule.json"))
	require.NoError(t, err)
	metrics := observability.NewMetrics()

	asm := services.NewContextAssembler(log, turns, store, services.AssemblerOptions{})
	dialogue := services.NewDialogueService(log, turns, store, asm, gw, metrics)
	return NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		PromptHandler:   httpH.NewPromptHandler(log, dialogue),
		HistoryHandler:  httpH.NewHistoryHandler(log, dialogue),
		ScheduleHandler: httpH.NewScheduleHandler(log, dialogue),
		HealthHandler:   httpH.NewHealthHandler(),
	})
}

func serve(r nethttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDentistRequestEndToEnd(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`[{"id":1,"description":"Dentist","startTime":"2026-03-02T15:00:00-05:00","status":"pending"}]`,
		"You have a dentist appointment tomorrow at 3pm.",
	}}
	r := newTestRouter(t, gw)

	rec := serve(r, nethttp.MethodPost, "/prompt", `{"prompt":"Add dentist tomorrow at 3pm"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"response":"`+services.ScheduleUpdatedMessage+`"}`, rec.Body.String())
	assert.Contains(t, gw.users[0], "CURRENT SCHEDULE:\n[]\n\nUSER REQUEST:\nAdd dentist tomorrow at 3pm")

	rec = serve(r, nethttp.MethodGet, "/schedule", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var sched []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sched))
	require.Len(t, sched, 1)
	assert.Equal(t, "Dentist", sched[0]["description"])
	assert.Equal(t, "2026-03-02T15:00:00-05:00", sched[0]["startTime"])
	assert.Equal(t, "pending", sched[0]["status"])

	rec = serve(r, nethttp.MethodPost, "/prompt", `{"prompt":"What's on tomorrow?"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, gw.users[1], `"description": "Dentist"`)

	rec = serve(r, nethttp.MethodGet, "/history", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"role":"user","content":"Add dentist tomorrow at 3pm"},
		{"role":"assistant","content":"`+services.ScheduleUpdatedMessage+`"},
		{"role":"user","content":"What's on tomorrow?"},
		{"role":"assistant","content":"You have a dentist appointment tomorrow at 3pm."}
	]`, rec.Body.String())
}

func TestPromptMissingDoesNoIO(t *testing.T) {
	gw := &scriptedGateway{}
	r := newTestRouter(t, gw)

	rec := serve(r, nethttp.MethodPost, "/prompt", `{}`)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Prompt is required"}`, rec.Body.String())
	assert.Empty(t, gw.users)

	rec = serve(r, nethttp.MethodGet, "/history", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGatewayFailureKeepsUserTurnOnly(t *testing.T) {
	r := newTestRouter(t, &scriptedGateway{})

	rec := serve(r, nethttp.MethodPost, "/prompt", `{"prompt":"hi"}`)
	require.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate content from AI"}`, rec.Body.String())

	rec = serve(r, nethttp.MethodGet, "/history", "")
	assert.JSONEq(t, `[{"role":"user","content":"hi"}]`, rec.Body.String())

	rec = serve(r, nethttp.MethodGet, "/schedule", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBannerHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, &scriptedGateway{})

	assert.Equal(t, httpH.Banner, serve(r, nethttp.MethodGet, "/", "").Body.String())
	assert.Equal(t, "ok", serve(r, nethttp.MethodGet, "/healthcheck", "").Body.String())

	rec := serve(r, nethttp.MethodGet, "/metrics", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agenda_http_requests_total")
}
