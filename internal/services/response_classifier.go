package services

import (
	"strings"

	types "github.com/yungbote/agenda-backend/internal/domain"
	"github.com/yungbote/agenda-backend/internal/domain/schedule"
)

type ResponseKind string

const (
	KindConversational      ResponseKind = "conversational"
	KindScheduleReplacement ResponseKind = "schedule_replacement"
)

// Classification is exactly one of: a replacement schedule (Schedule set,
// non-nil even when empty) or a conversational reply (Text set).
type Classification struct {
	Kind     ResponseKind
	Schedule types.Schedule
	Text     string
}

// ClassifyResponse sniffs the shape of a raw completion. A reply whose
// trimmed text is bracketed by [ and ] and decodes as an array of task
// objects replaces the schedule; anything else, including a bracketed reply
// that fails to decode, is conversational and kept verbatim.
//
// This is syntactic only. A chat answer that happens to be a valid JSON
// array of objects is taken as a schedule, and a schedule wrapped in prose
// or code fences is taken as chat.
func ClassifyResponse(raw string) Classification {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		if s, err := schedule.Decode([]byte(trimmed)); err == nil {
			return Classification{Kind: KindScheduleReplacement, Schedule: s}
		}
	}
	return Classification{Kind: KindConversational, Text: raw}
}
