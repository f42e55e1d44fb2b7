// Package lifecycle implements the content review state machine:
// draft -> pending -> published | rejected. Published and rejected are
// terminal. The machine mutates items in memory only; persisting a
// transition atomically (compare-and-swap on the current state) is the
// storage layer's job.
package lifecycle

import (
	"strings"
	"time"

	"github.com/anoexpected/stemhub-backend/internal/model"
)

// KindConfig holds per-kind lifecycle settings.
type KindConfig struct {
	// AutoPublish skips review entirely: items of this kind are created
	// directly in the published state with no reviewer association.
	AutoPublish bool
}

// Config maps content kinds to their lifecycle settings. Kinds absent
// from the map get the zero value, i.e. the full review flow.
type Config map[model.ContentKind]KindConfig

// DefaultConfig routes every kind through the full review flow.
func DefaultConfig() Config {
	return Config{
		model.KindNote:      {},
		model.KindQuiz:      {},
		model.KindPastPaper: {},
	}
}

// Machine validates and applies lifecycle transitions. Role and ownership
// checks happen upstream in the authorization gate; the machine only
// enforces state legality and stamps audit metadata.
type Machine struct {
	cfg Config
}

// NewMachine creates a Machine with the given per-kind configuration.
func NewMachine(cfg Config) *Machine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Machine{cfg: cfg}
}

// InitialState returns the state a freshly created item of the kind enters.
func (m *Machine) InitialState(kind model.ContentKind) model.ContentState {
	if m.cfg[kind].AutoPublish {
		return model.StatePublished
	}
	return model.StateDraft
}

// Init stamps a new item with its initial state and timestamps.
func (m *Machine) Init(item *model.ContentItem, now time.Time) {
	item.State = m.InitialState(item.Kind)
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.State == model.StatePublished {
		ts := now
		item.PublishedAt = &ts
	}
}

// SaveDraft applies a draft -> draft edit. The caller mutates title and
// body; the machine only validates the state and bumps the timestamp.
func (m *Machine) SaveDraft(item *model.ContentItem, actor *model.Actor, now time.Time) error {
	if item.State != model.StateDraft {
		return &InvalidTransitionError{From: item.State, To: model.StateDraft, Role: actor.Role}
	}
	item.UpdatedAt = now
	return nil
}

// Submit applies draft -> pending and records the submission time.
func (m *Machine) Submit(item *model.ContentItem, actor *model.Actor, now time.Time) error {
	if item.State != model.StateDraft {
		return &InvalidTransitionError{From: item.State, To: model.StatePending, Role: actor.Role}
	}
	item.State = model.StatePending
	ts := now
	item.SubmittedAt = &ts
	item.UpdatedAt = now
	return nil
}

// Approve applies pending -> published, associates the reviewer and
// clears any feedback left over from an earlier review cycle.
func (m *Machine) Approve(item *model.ContentItem, reviewer *model.Actor, now time.Time) error {
	if item.State != model.StatePending {
		return &InvalidTransitionError{From: item.State, To: model.StatePublished, Role: reviewer.Role}
	}
	item.State = model.StatePublished
	reviewerID := reviewer.ID
	item.ReviewerID = &reviewerID
	item.Feedback = nil
	ts := now
	item.ReviewedAt = &ts
	item.PublishedAt = &ts
	item.UpdatedAt = now
	return nil
}

// Reject applies pending -> rejected with mandatory feedback.
func (m *Machine) Reject(item *model.ContentItem, reviewer *model.Actor, feedback string, now time.Time) error {
	if item.State != model.StatePending {
		return &InvalidTransitionError{From: item.State, To: model.StateRejected, Role: reviewer.Role}
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return ErrFeedbackRequired
	}
	item.State = model.StateRejected
	reviewerID := reviewer.ID
	item.ReviewerID = &reviewerID
	item.Feedback = &feedback
	ts := now
	item.ReviewedAt = &ts
	item.UpdatedAt = now
	return nil
}
