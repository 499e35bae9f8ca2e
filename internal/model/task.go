package model

import (
	"time"

	"github.com/google/uuid"
)

// Task is the domain model for a single todo entry.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // non-nil iff Completed
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`   // nil until first text edit
}

// NewTask builds a pending task with a fresh id. Text is stored as given;
// validation (trimming, non-empty) is the store's job.
func NewTask(text string) Task {
	return Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Complete marks the task done and stamps CompletedAt.
func (t *Task) Complete() {
	now := time.Now()
	t.Completed = true
	t.CompletedAt = &now
}

// Reopen moves the task back to pending and clears CompletedAt.
func (t *Task) Reopen() {
	t.Completed = false
	t.CompletedAt = nil
}

// Rename replaces the text and stamps UpdatedAt.
func (t *Task) Rename(text string) {
	now := time.Now()
	t.Text = text
	t.UpdatedAt = &now
}
