package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamBoard represents an examination board (e.g. ZIMSEC, Cambridge).
type ExamBoard struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Subject belongs to an exam board.
type Subject struct {
	ID          uuid.UUID `json:"id"`
	ExamBoardID uuid.UUID `json:"exam_board_id"`
	Name        string    `json:"name"`
	Level       string    `json:"level,omitempty"` // e.g. "O Level", "A Level"
	CreatedAt   time.Time `json:"created_at"`
}

// Topic belongs to a subject and is the unit content items attach to.
type Topic struct {
	ID        uuid.UUID `json:"id"`
	SubjectID uuid.UUID `json:"subject_id"`
	Name      string    `json:"name"`
	OrderNum  int       `json:"order_num"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateExamBoardRequest is the admin payload for adding an exam board.
type CreateExamBoardRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Country string `json:"country" binding:"omitempty,max=120"`
}

// CreateSubjectRequest is the admin payload for adding a subject.
type CreateSubjectRequest struct {
	ExamBoardID uuid.UUID `json:"exam_board_id" binding:"required"`
	Name        string    `json:"name" binding:"required,min=2,max=120"`
	Level       string    `json:"level" binding:"omitempty,max=60"`
}

// CreateTopicRequest is the admin payload for adding a topic.
type CreateTopicRequest struct {
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
	Name      string    `json:"name" binding:"required,min=2,max=160"`
	OrderNum  int       `json:"order_num" binding:"omitempty,min=0"`
}
