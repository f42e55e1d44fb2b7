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

// ReviewHandler handles the admin moderation endpoints.
type ReviewHandler struct {
	contentService *service.ContentService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(contentService *service.ContentService) *ReviewHandler {
	return &ReviewHandler{contentService: contentService}
}

// ListPending godoc
// GET /api/v1/review/pending
// Lists the review queue, oldest submissions first.
func (h *ReviewHandler) ListPending(c *gin.Context) {
	actor := middleware.GetActor(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	items, pagination, err := h.contentService.ListPending(c.Request.Context(), actor, page, perPage)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"content": items}, pagination)
}

// ApproveContent godoc
// POST /api/v1/review/:content_id/approve
// Publishes a pending item. Returns 409 if another reviewer got there first.
func (h *ReviewHandler) ApproveContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	item, err := h.contentService.Approve(c.Request.Context(), actor, contentID)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": item})
}

// RejectContent godoc
// POST /api/v1/review/:content_id/reject
// Declines a pending item. Feedback is mandatory; rejecting without an
// explanation is a 400.
func (h *ReviewHandler) RejectContent(c *gin.Context) {
	actor := middleware.GetActor(c)

	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RejectContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.contentService.Reject(c.Request.Context(), actor, contentID, req.Feedback)
	if err != nil {
		failFromErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": item})
}
