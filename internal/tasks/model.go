package tasks

import (
	"bytes"
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask is the input to Service.Create. An absent status means pending;
// an explicit null is rejected.
type NewTask struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      Field[Status] `json:"status"`
}

// Field is a tri-state JSON value: absent, explicit null, or set.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Patch is a partial update. Only fields present in the patch are applied.
type Patch struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Status      Field[Status] `json:"status"`
}

// Apply merges p over t. It does not touch timestamps.
func (p Patch) Apply(t Task) Task {
	if p.Title.Set && !p.Title.Null {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		if p.Description.Null {
			t.Description = nil
		} else {
			d := p.Description.Value
			t.Description = &d
		}
	}
	if p.Status.Set && !p.Status.Null {
		t.Status = p.Status.Value
	}
	return t
}

type ListQuery struct {
	Status Status // empty means no filter
	Limit  int
	Offset int
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	Message  string         `json:"message,omitempty"`
}
