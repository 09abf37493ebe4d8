package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders s as a 2-space indented JSON array with a trailing newline.
// A nil schedule encodes as "[]".
func Encode(s Schedule) ([]byte, error) {
	if s == nil {
		s = Schedule{}
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return append(out, '\n'), nil
}

// Decode parses a stored document. Empty input is the empty schedule.
func Decode(data []byte) (Schedule, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Schedule{}, nil
	}
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	if s == nil {
		s = Schedule{}
	}
	return s, nil
}
