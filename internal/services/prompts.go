package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	scheduleHeader = "CURRENT SCHEDULE:"
	requestHeader  = "USER REQUEST:"
)

// ScheduleUpdatedMessage is what the user sees, and what the log records,
// after a schedule replacement. The JSON payload itself is never shown.
const ScheduleUpdatedMessage = "Your schedule has been updated."

const systemInstructionTemplate = `You are a personal scheduling assistant for a single user.

Every user message contains two blocks:
%s the user's tasks as a JSON array. Each task has "id", "description", "startTime" (ISO-8601 with a timezone offset) and "status".
%s what the user is asking for.

Rules:
- If the request changes the schedule in any way (add, move, rename, complete or remove tasks), reply with ONLY the complete updated JSON array. No prose, no markdown, no code fences.
- The array you return replaces the whole schedule. Include every task that should remain, unchanged tasks included.
- Keep the "id" of existing tasks exactly as given. Give each new task a new id that no other task uses, and status "pending".
- Write "startTime" as ISO-8601 with an explicit offset, resolving relative dates against the current time below.
- For anything else (questions, greetings, clarifications), reply in plain conversational text and never start the reply with "[".

Current time: %s`

// SystemInstruction renders the fixed instruction for a given clock reading.
func SystemInstruction(now time.Time) string {
	return fmt.Sprintf(systemInstructionTemplate, scheduleHeader, requestHeader, now.Format(time.RFC3339))
}

// ComposeUserMessage lays out the schedule block and the literal request.
// scheduleJSON is the encoded schedule; surrounding whitespace is dropped.
func ComposeUserMessage(scheduleJSON []byte, userText string) string {
	var b strings.Builder
	b.WriteString(scheduleHeader)
	b.WriteByte('\n')
	b.WriteString(strings.TrimSpace(string(scheduleJSON)))
	b.WriteString("\n\n")
	b.WriteString(requestHeader)
	b.WriteByte('\n')
	b.WriteString(userText)
	return b.String()
}
