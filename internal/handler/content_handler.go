package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anoexpected/stemhub-backend/internal/middleware"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
	"github.com/anoexpected/stemhub-backend/internal/validator"
)

// ContentHandler handles contributor-facing content endpoints.
type ContentHandler struct {
	contentService *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateContent godoc
// POST /api/v1/content
// Creates a new draft note, quiz or past paper.
func (h *ContentHandler) CreateContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	var req model.CreateContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.contentService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"content": item})
}

// UpdateContent godoc
// PUT /api/v1/content/:content_id
// Saves edits to a draft. Only the owner (or an admin) may edit, and only
// while the item is still a draft.
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.contentService.SaveDraft(c.Request.Context(), actor, contentID, &req)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": item})
}

// SubmitContent godoc
// POST /api/v1/content/:content_id/submit
// Moves a draft into the review queue.
func (h *ContentHandler) SubmitContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	item, err := h.contentService.Submit(c.Request.Context(), actor, contentID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": item})
}

// GetContent godoc
// GET /api/v1/content/:content_id
// Returns one item. Unpublished items are only visible to their owner and
// admins.
func (h *ContentHandler) GetContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	item, err := h.contentService.Get(c.Request.Context(), actor, contentID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": item})
}

// ListMyContent godoc
// GET /api/v1/content/mine
// Lists the actor's own content across all lifecycle states.
func (h *ContentHandler) ListMyContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	items, pagination, err := h.contentService.ListOwn(c.Request.Context(), actor, page, perPage)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"content": items}, pagination)
}

// ListTopicContent godoc
// GET /api/v1/topics/:topic_id/content?kind=note
// Lists published content for a topic, optionally filtered by kind.
func (h *ContentHandler) ListTopicContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	topicID, err := uuid.Parse(c.Param("topic_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	kind := model.ContentKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	items, err := h.contentService.ListPublishedByTopic(c.Request.Context(), actor, topicID, kind)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": items})
}
