package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
)

// SubjectHandler handles the subject catalog.
type SubjectHandler struct {
	subjectService *service.SubjectService
	topicService   *service.TopicService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService, topicService *service.TopicService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, topicService: topicService}
}

// GetAll godoc
// GET /api/v1/subjects
func (h *SubjectHandler) GetAll(c *gin.Context) {
	page, limit := pageQuery(c)

	subjects, window, err := h.subjectService.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"subjects": subjects}, window)
}

// GetByID godoc
// GET /api/v1/subjects/:id
func (h *SubjectHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	subject, err := h.subjectService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Create godoc
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// Update godoc
// PATCH /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.SubjectPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Delete godoc
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "subject deleted"})
}

// GetTopics godoc
// GET /api/v1/subjects/:id/topics
func (h *SubjectHandler) GetTopics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	topics, err := h.topicService.ListBySubject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	response.Success(c, http.StatusOK, gin.H{"topics": topics})
}
