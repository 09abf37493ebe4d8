package app

import (
	"context"
	"fmt"

	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/gemini"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
	"github.com/yungbote/agenda-backend/internal/platform/openai"
	"github.com/yungbote/agenda-backend/internal/services"
)

type Services struct {
	Gateway   services.CompletionGateway
	Assembler services.ContextAssembler
	Dialogue  services.DialogueService
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, reposet Repos, store schedulestore.Store, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	gw, err := wireCompletionGateway(ctx, log, cfg, metrics)
	if err != nil {
		return Services{}, err
	}
	asm := services.NewContextAssembler(log, reposet.Turn, store, services.AssemblerOptions{
		Window:   cfg.HistoryWindow,
		Location: cfg.Location(),
	})
	return Services{
		Gateway:   gw,
		Assembler: asm,
		Dialogue:  services.NewDialogueService(log, reposet.Turn, store, asm, gw, metrics),
	}, nil
}

func wireCompletionGateway(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (services.CompletionGateway, error) {
	opts := services.GatewayOptions{Timeout: cfg.LLMTimeout, Metrics: metrics}
	switch cfg.LLMProvider {
	case ProviderOpenAI:
		client, err := openai.NewClient(log, openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Timeout:     cfg.LLMTimeout,
			Temperature: cfg.OpenAITemperature,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		log.Info("Completion provider selected", "provider", ProviderOpenAI, "model", cfg.OpenAIModel)
		return services.NewOpenAIGateway(log, client, opts), nil
	case ProviderGemini:
		client, err := gemini.NewClient(ctx, log, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		log.Info("Completion provider selected", "provider", ProviderGemini, "model", cfg.GeminiModel)
		return services.NewGeminiGateway(log, client, opts), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
