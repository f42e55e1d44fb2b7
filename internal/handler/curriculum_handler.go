package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anoexpected/stemhub-backend/internal/middleware"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
	"github.com/anoexpected/stemhub-backend/internal/validator"
)

// CurriculumHandler handles exam board, subject and topic endpoints.
type CurriculumHandler struct {
	curriculumService *service.CurriculumService
}

// NewCurriculumHandler creates a new CurriculumHandler.
func NewCurriculumHandler(curriculumService *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumService: curriculumService}
}

// ListExamBoards godoc
// GET /api/v1/exam-boards
func (h *CurriculumHandler) ListExamBoards(c *gin.Context) {
	boards, err := h.curriculumService.ListExamBoards(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam_boards": boards})
}

// CreateExamBoard godoc
// POST /api/v1/exam-boards (admin)
func (h *CurriculumHandler) CreateExamBoard(c *gin.Context) {
	var req model.CreateExamBoardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	board, err := h.curriculumService.CreateExamBoard(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam_board": board})
}

// ListSubjects godoc
// GET /api/v1/subjects?exam_board_id=...
func (h *CurriculumHandler) ListSubjects(c *gin.Context) {
	var examBoardID *uuid.UUID
	if raw := c.Query("exam_board_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		examBoardID = &id
	}

	subjects, err := h.curriculumService.ListSubjects(c.Request.Context(), middleware.GetActor(c), examBoardID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// CreateSubject godoc
// POST /api/v1/subjects (admin)
func (h *CurriculumHandler) CreateSubject(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.curriculumService.CreateSubject(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// ListTopics godoc
// GET /api/v1/subjects/:subject_id/topics
func (h *CurriculumHandler) ListTopics(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subject_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	topics, err := h.curriculumService.ListTopics(c.Request.Context(), middleware.GetActor(c), subjectID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}

// CreateTopic godoc
// POST /api/v1/topics (admin)
func (h *CurriculumHandler) CreateTopic(c *gin.Context) {
	var req model.CreateTopicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	topic, err := h.curriculumService.CreateTopic(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"topic": topic})
}

// DeleteTopic godoc
// DELETE /api/v1/topics/:topic_id (admin)
func (h *CurriculumHandler) DeleteTopic(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("topic_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.curriculumService.DeleteTopic(c.Request.Context(), middleware.GetActor(c), topicID); err != nil {
		failFromErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "topic deleted"})
}
