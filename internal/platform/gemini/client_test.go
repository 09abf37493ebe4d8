package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type wirePart struct {
	Text string `json:"text"`
}

type wireContent struct {
	Role  string     `json:"role"`
	Parts []wirePart `json:"parts"`
}

type wireRequest struct {
	Contents          []wireContent `json:"contents"`
	SystemInstruction *wireContent  `json:"systemInstruction"`
}

func TestGenerateTextMapsRolesAndSystemInstruction(t *testing.T) {
	var got wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Sure thing."}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), logger.Nop(), Config{APIKey: "k", Model: "test-model", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := c.GenerateText(context.Background(), "be helpful", []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}, "add lunch")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "Sure thing." {
		t.Fatalf("unexpected text %q", text)
	}
	if len(got.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(got.Contents))
	}
	if got.Contents[0].Role != "user" || got.Contents[1].Role != "model" || got.Contents[2].Role != "user" {
		t.Fatalf("unexpected roles: %+v", got.Contents)
	}
	if got.Contents[2].Parts[0].Text != "add lunch" {
		t.Fatalf("unexpected final message: %+v", got.Contents[2])
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Fatalf("missing system instruction: %+v", got.SystemInstruction)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestRoleFor(t *testing.T) {
	if roleFor("assistant") != "model" || roleFor("model") != "model" || roleFor("user") != "user" {
		t.Fatalf("unexpected role mapping")
	}
}
