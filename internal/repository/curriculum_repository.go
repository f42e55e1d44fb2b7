package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anoexpected/stemhub-backend/internal/model"
)

// CurriculumRepository handles exam board, subject and topic data access.
type CurriculumRepository struct {
	pool *pgxpool.Pool
}

// NewCurriculumRepository creates a new CurriculumRepository.
func NewCurriculumRepository(pool *pgxpool.Pool) *CurriculumRepository {
	return &CurriculumRepository{pool: pool}
}

// CreateExamBoard inserts a new exam board.
func (r *CurriculumRepository) CreateExamBoard(ctx context.Context, b *model.ExamBoard) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_boards (name, country) VALUES ($1, $2)
		 RETURNING id, created_at`,
		b.Name, b.Country,
	).Scan(&b.ID, &b.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// ListExamBoards returns all exam boards ordered by name.
func (r *CurriculumRepository) ListExamBoards(ctx context.Context) ([]model.ExamBoard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, country, created_at FROM exam_boards ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []model.ExamBoard
	for rows.Next() {
		var b model.ExamBoard
		if err := rows.Scan(&b.ID, &b.Name, &b.Country, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// CreateSubject inserts a new subject under an exam board.
func (r *CurriculumRepository) CreateSubject(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subjects (exam_board_id, name, level) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.ExamBoardID, s.Name, s.Level,
	).Scan(&s.ID, &s.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// ListSubjects returns subjects, optionally filtered by exam board.
func (r *CurriculumRepository) ListSubjects(ctx context.Context, examBoardID *uuid.UUID) ([]model.Subject, error) {
	query := `SELECT id, exam_board_id, name, level, created_at FROM subjects`
	var args []interface{}
	if examBoardID != nil {
		query += ` WHERE exam_board_id = $1`
		args = append(args, *examBoardID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.ExamBoardID, &s.Name, &s.Level, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// CreateTopic inserts a new topic under a subject.
func (r *CurriculumRepository) CreateTopic(ctx context.Context, t *model.Topic) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO topics (subject_id, name, order_num) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.SubjectID, t.Name, t.OrderNum,
	).Scan(&t.ID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// ListTopics returns the topics of a subject in curriculum order.
func (r *CurriculumRepository) ListTopics(ctx context.Context, subjectID uuid.UUID) ([]model.Topic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject_id, name, order_num, created_at
		 FROM topics WHERE subject_id = $1 ORDER BY order_num, name`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.OrderNum, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetTopic retrieves a topic by id.
func (r *CurriculumRepository) GetTopic(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	t := &model.Topic{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, name, order_num, created_at FROM topics WHERE id = $1`, id,
	).Scan(&t.ID, &t.SubjectID, &t.Name, &t.OrderNum, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTopic removes a topic. Fails with ErrDependencyExists if content
// still references it.
func (r *CurriculumRepository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrDependencyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
