package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

// Message is one prior turn. Role is "user" or "assistant"; assistant turns
// are sent with the Gemini "model" role.
type Message struct {
	Role    string
	Content string
}

type Client interface {
	GenerateText(ctx context.Context, system string, history []Message, user string) (string, error)
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type client struct {
	log   *logger.Logger
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	gc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		gc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	gclient, err := genai.NewClient(ctx, gc)
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &client{
		log:   log.With("service", "GeminiClient"),
		genai: gclient,
		model: model,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, system string, history []Message, user string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, roleFor(m.Role)))
	}
	contents = append(contents, genai.NewContentFromText(user, genai.RoleUser))

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(system) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	c.log.Debug("Gemini completion", "model", c.model, "history_len", len(history), "chars", len(text))
	return text, nil
}

func roleFor(role string) genai.Role {
	if strings.EqualFold(strings.TrimSpace(role), "assistant") || strings.EqualFold(strings.TrimSpace(role), "model") {
		return genai.RoleModel
	}
	return genai.RoleUser
}
