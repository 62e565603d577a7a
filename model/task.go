package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tags            string     `json:"tags"`
	DueDate         *time.Time `json:"dueDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	UserGoogleID    string     `json:"userGoogleId"`
	CalendarEventID string     `json:"calendarEventId,omitempty"`
}

// TaskInput is the body of POST /api/tasks. Tags may arrive as a string or as
// any JSON structure, so they are kept raw until normalization. Title is
// checked by NewTask, after the owner is resolved, so an anonymous request is
// rejected as unauthorized before its payload is judged.
type TaskInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        json.RawMessage `json:"tags"`
	DueDate     string          `json:"dueDate"`
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewTask validates the input and builds an unsaved Task owned by ownerID.
func (in TaskInput) NewTask(ownerID string) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	return &Task{
		Title:        title,
		Description:  in.Description,
		Tags:         tags,
		DueDate:      due,
		UserGoogleID: ownerID,
	}, nil
}

// NormalizeTags stores a JSON string verbatim and serializes anything else
// (arrays, objects, numbers) to compact JSON. Absent or null tags become "".
func NormalizeTags(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("invalid tags: %w", err)
		}
		return s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", fmt.Errorf("invalid tags: %w", err)
	}
	return buf.String(), nil
}

// ParseDueDate accepts RFC 3339 timestamps, zone-less date-times and plain
// dates. Values without a zone are interpreted as UTC.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid dueDate %q", s)
}
