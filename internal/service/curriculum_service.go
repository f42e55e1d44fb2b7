package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
)

// CurriculumService handles exam board, subject and topic management.
// Reads are open to any authenticated role; writes are admin-only.
type CurriculumService struct {
	repo *repository.CurriculumRepository
	gate *authz.Gate
	log  zerolog.Logger
}

// NewCurriculumService creates a new CurriculumService.
func NewCurriculumService(repo *repository.CurriculumRepository, gate *authz.Gate, log zerolog.Logger) *CurriculumService {
	return &CurriculumService{
		repo: repo,
		gate: gate,
		log:  log.With().Str("component", "curriculum_service").Logger(),
	}
}

// CreateExamBoard adds an exam board.
func (s *CurriculumService) CreateExamBoard(ctx context.Context, actor *model.Actor, req *model.CreateExamBoardRequest) (*model.ExamBoard, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	board := &model.ExamBoard{Name: req.Name, Country: req.Country}
	if err := s.repo.CreateExamBoard(ctx, board); err != nil {
		return nil, err
	}
	s.log.Info().Str("exam_board", board.Name).Msg("Exam board created")
	return board, nil
}

// ListExamBoards returns all exam boards.
func (s *CurriculumService) ListExamBoards(ctx context.Context, actor *model.Actor) ([]model.ExamBoard, error) {
	if err := s.requireAccess(actor); err != nil {
		return nil, err
	}
	boards, err := s.repo.ListExamBoards(ctx)
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []model.ExamBoard{}
	}
	return boards, nil
}

// CreateSubject adds a subject under an exam board.
func (s *CurriculumService) CreateSubject(ctx context.Context, actor *model.Actor, req *model.CreateSubjectRequest) (*model.Subject, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	subject := &model.Subject{ExamBoardID: req.ExamBoardID, Name: req.Name, Level: req.Level}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// ListSubjects returns subjects, optionally scoped to one exam board.
func (s *CurriculumService) ListSubjects(ctx context.Context, actor *model.Actor, examBoardID *uuid.UUID) ([]model.Subject, error) {
	if err := s.requireAccess(actor); err != nil {
		return nil, err
	}
	subjects, err := s.repo.ListSubjects(ctx, examBoardID)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, nil
}

// CreateTopic adds a topic under a subject.
func (s *CurriculumService) CreateTopic(ctx context.Context, actor *model.Actor, req *model.CreateTopicRequest) (*model.Topic, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	topic := &model.Topic{SubjectID: req.SubjectID, Name: req.Name, OrderNum: req.OrderNum}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// ListTopics returns a subject's topics in curriculum order.
func (s *CurriculumService) ListTopics(ctx context.Context, actor *model.Actor, subjectID uuid.UUID) ([]model.Topic, error) {
	if err := s.requireAccess(actor); err != nil {
		return nil, err
	}
	topics, err := s.repo.ListTopics(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, nil
}

// DeleteTopic removes a topic with no content attached.
func (s *CurriculumService) DeleteTopic(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}
	return s.repo.DeleteTopic(ctx, id)
}

func (s *CurriculumService) requireManage(actor *model.Actor) error {
	decision, err := s.gate.Authorize(actor, authz.ActionManageCurriculum, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decisionErr(decision)
	}
	return nil
}

func (s *CurriculumService) requireAccess(actor *model.Actor) error {
	decision, err := s.gate.Authorize(actor, authz.ActionAccessContent, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decisionErr(decision)
	}
	return nil
}
