package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const StatusPending = "pending"

// Task is one schedule item as the assistant emits it. ID is kept as raw
// JSON (models emit both numbers and strings) and is never generated or
// checked for uniqueness here. Fields other than the four known ones are
// carried in Extra so a replace followed by a read loses nothing.
type Task struct {
	ID          json.RawMessage
	Description string
	StartTime   string
	Status      string
	Extra       map[string]json.RawMessage

	// blank holds the literal ("" or null) of known fields that were
	// present but empty when decoded, so they are written back as-is.
	blank map[string]json.RawMessage
}

// Schedule is the whole agenda, always replaced wholesale.
type Schedule []Task

// Start parses StartTime as RFC 3339.
func (t Task) Start() (time.Time, error) {
	return time.Parse(time.RFC3339, t.StartTime)
}

// IDString renders the id without JSON quoting for logs and CLI output.
func (t Task) IDString() string {
	var s string
	if err := json.Unmarshal(t.ID, &s); err == nil {
		return s
	}
	return string(t.ID)
}

var knownKeys = map[string]bool{"id": true, "description": true, "startTime": true, "status": true}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("task must be a JSON object")
	}
	*t = Task{}
	if v, ok := raw["id"]; ok {
		t.ID = append(json.RawMessage(nil), v...)
	}
	for key, dst := range map[string]*string{"description": &t.Description, "startTime": &t.StartTime, "status": &t.Status} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if string(v) != "null" {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("task field %q: %w", key, err)
			}
		}
		if *dst == "" {
			if t.blank == nil {
				t.blank = map[string]json.RawMessage{}
			}
			t.blank[key] = append(json.RawMessage(nil), v...)
		}
	}
	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if t.Extra == nil {
			t.Extra = map[string]json.RawMessage{}
		}
		t.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// MarshalJSON writes id, description, startTime, status, then extras in key
// order, so encoding is deterministic. An empty known field is omitted unless
// it was present in the decoded input.
func (t Task) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, val []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	if len(t.ID) > 0 {
		write("id", t.ID)
	}
	for _, f := range []struct {
		key string
		val string
	}{{"description", t.Description}, {"startTime", t.StartTime}, {"status", t.Status}} {
		if f.val == "" {
			if lit, ok := t.blank[f.key]; ok {
				write(f.key, lit)
			}
			continue
		}
		v, err := json.Marshal(f.val)
		if err != nil {
			return nil, err
		}
		write(f.key, v)
	}
	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, t.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
