package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentKind enumerates the kinds of user-submitted material.
type ContentKind string

const (
	KindNote      ContentKind = "note"
	KindQuiz      ContentKind = "quiz"
	KindPastPaper ContentKind = "past_paper"
)

// Valid reports whether the kind is one of the defined values.
func (k ContentKind) Valid() bool {
	switch k {
	case KindNote, KindQuiz, KindPastPaper:
		return true
	}
	return false
}

// ContentState enumerates the lifecycle states of a content item.
type ContentState string

const (
	StateDraft     ContentState = "draft"
	StatePending   ContentState = "pending"
	StatePublished ContentState = "published"
	StateRejected  ContentState = "rejected"
)

// ContentItem is a unit of user-submitted material: a note, a quiz or a
// past paper. Reviewer identity and feedback are only ever set once the
// item has been reviewed (published or rejected).
type ContentItem struct {
	ID          uuid.UUID       `json:"id"`
	Kind        ContentKind     `json:"kind"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	TopicID     uuid.UUID       `json:"topic_id"`
	Title       string          `json:"title"`
	Body        json.RawMessage `json:"body"`
	State       ContentState    `json:"state"`
	ReviewerID  *uuid.UUID      `json:"reviewer_id,omitempty"`
	Feedback    *string         `json:"feedback,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// CreateContentRequest is the payload for creating a new draft.
type CreateContentRequest struct {
	Kind    string          `json:"kind" binding:"required,oneof=note quiz past_paper"`
	TopicID uuid.UUID       `json:"topic_id" binding:"required"`
	Title   string          `json:"title" binding:"required,min=3,max=255"`
	Body    json.RawMessage `json:"body" binding:"required"`
}

// UpdateContentRequest is the payload for editing a draft in place.
type UpdateContentRequest struct {
	Title string          `json:"title" binding:"omitempty,min=3,max=255"`
	Body  json.RawMessage `json:"body" binding:"omitempty"`
}

// RejectContentRequest carries the mandatory reviewer feedback.
type RejectContentRequest struct {
	Feedback string `json:"feedback" binding:"required,min=1,max=2000"`
}

// ReviewEvent is published to the admin review stream whenever an item is
// submitted, approved or rejected.
type ReviewEvent struct {
	Type       string     `json:"type"` // submitted | published | rejected | reminder
	ContentID  uuid.UUID  `json:"content_id"`
	Kind       ContentKind `json:"kind"`
	Title      string     `json:"title"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	ReviewerID *uuid.UUID `json:"reviewer_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
