package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/response"
)

// UserService handles account registration, login lookups and admin user
// management.
type UserService struct {
	actorRepo   *repository.ActorRepository
	authService *AuthService
	gate        *authz.Gate
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(actorRepo *repository.ActorRepository, authService *AuthService, gate *authz.Gate, log zerolog.Logger) *UserService {
	return &UserService{
		actorRepo:   actorRepo,
		authService: authService,
		gate:        gate,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates a new account. New accounts always start as students;
// promotion to contributor or admin is a separate admin operation.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Actor, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	actor := &model.Actor{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     model.RoleStudent,
	}
	if err := s.actorRepo.Create(ctx, actor, hash); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", actor.ID.String()).Msg("User registered")
	return actor, nil
}

// Login verifies credentials and returns the actor on success.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.Actor, error) {
	actor, hash, err := s.actorRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.authService.CheckPassword(hash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return actor, nil
}

// GetByID loads a user by id.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.Actor, error) {
	return s.actorRepo.GetByID(ctx, id)
}

// List returns users for the admin dashboard.
func (s *UserService) List(ctx context.Context, actor *model.Actor, page, perPage int) ([]model.Actor, *response.Pagination, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionManageUsers, nil)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, nil, decisionErr(decision)
	}

	limit, offset, pagination := paginate(page, perPage)
	users, total, err := s.actorRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if users == nil {
		users = []model.Actor{}
	}
	fillTotals(pagination, total)
	return users, pagination, nil
}

// SetRole changes a user's role and revokes their session so the old role
// claim cannot outlive the change.
func (s *UserService) SetRole(ctx context.Context, actor *model.Actor, userID uuid.UUID, role model.Role) (*model.Actor, error) {
	decision, err := s.gate.Authorize(actor, authz.ActionManageUsers, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, decisionErr(decision)
	}

	if !role.Valid() {
		return nil, &model.UnknownRoleError{Role: role}
	}

	if err := s.actorRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	if err := s.authService.RevokeSession(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to revoke session after role change")
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("role", string(role)).
		Str("changed_by", actor.ID.String()).
		Msg("User role changed")

	return s.actorRepo.GetByID(ctx, userID)
}

// paginate normalizes page/per_page and builds the pagination skeleton.
func paginate(page, perPage int) (limit, offset int, p *response.Pagination) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return perPage, (page - 1) * perPage, &response.Pagination{Page: page, PerPage: perPage}
}

func fillTotals(p *response.Pagination, total int) {
	p.TotalItems = total
	p.TotalPages = (total + p.PerPage - 1) / p.PerPage
}
