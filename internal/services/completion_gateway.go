package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/gemini"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
	"github.com/yungbote/agenda-backend/internal/platform/openai"
)

const DefaultCompletionTimeout = 60 * time.Second

// Message is one history entry handed to the completion engine.
type Message struct {
	Role    string
	Content string
}

// CompletionGateway makes exactly one stateless completion call. Every
// failure, including a timeout or an empty reply, is a *CompletionError.
type CompletionGateway interface {
	Complete(ctx context.Context, systemInstruction string, history []Message, userMessage string) (string, error)
}

type generateFunc func(ctx context.Context, system string, history []Message, user string) (string, error)

type GatewayOptions struct {
	Timeout time.Duration
	Metrics *observability.Metrics
}

type completionGateway struct {
	log      *logger.Logger
	provider string
	generate generateFunc
	timeout  time.Duration
	metrics  *observability.Metrics
}

func newCompletionGateway(log *logger.Logger, provider string, fn generateFunc, opts GatewayOptions) CompletionGateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	return &completionGateway{
		log:      log.With("service", "CompletionGateway", "provider", provider),
		provider: provider,
		generate: fn,
		timeout:  timeout,
		metrics:  opts.Metrics,
	}
}

func NewGeminiGateway(log *logger.Logger, client gemini.Client, opts GatewayOptions) CompletionGateway {
	return newCompletionGateway(log, "gemini", func(ctx context.Context, system string, history []Message, user string) (string, error) {
		msgs := make([]gemini.Message, 0, len(history))
		for _, m := range history {
			msgs = append(msgs, gemini.Message{Role: m.Role, Content: m.Content})
		}
		return client.GenerateText(ctx, system, msgs, user)
	}, opts)
}

func NewOpenAIGateway(log *logger.Logger, client openai.Client, opts GatewayOptions) CompletionGateway {
	return newCompletionGateway(log, "openai", func(ctx context.Context, system string, history []Message, user string) (string, error) {
		msgs := make([]openai.Message, 0, len(history))
		for _, m := range history {
			role := m.Role
			if role != types.RoleAssistant {
				role = types.RoleUser
			}
			msgs = append(msgs, openai.Message{Role: role, Content: m.Content})
		}
		return client.GenerateText(ctx, system, msgs, user)
	}, opts)
}

func (g *completionGateway) Complete(ctx context.Context, systemInstruction string, history []Message, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.generate(ctx, systemInstruction, history, userMessage)
	elapsed := time.Since(start)

	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w after %s: %v", ErrCompletionTimeout, g.timeout, err)
	case err == nil && strings.TrimSpace(text) == "":
		err = fmt.Errorf("empty completion")
	}
	if err != nil {
		g.metrics.ObserveCompletion(g.provider, "error", elapsed)
		g.log.Warn("Completion failed", "duration_ms", elapsed.Milliseconds(), "error", err)
		return "", &CompletionError{Provider: g.provider, Err: err}
	}
	g.metrics.ObserveCompletion(g.provider, "ok", elapsed)
	g.log.Debug("Completion obtained", "duration_ms", elapsed.Milliseconds(), "history_len", len(history))
	return text, nil
}
