package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/middleware"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
)

// QuestionHandler handles the question bank.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func queryID(c *gin.Context, param string) (*int64, bool) {
	raw := c.Query(param)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	return &id, true
}

func questionFilterQuery(c *gin.Context) (model.QuestionFilter, bool) {
	var filter model.QuestionFilter
	var ok bool
	if filter.ExamSubjectID, ok = queryID(c, "exam_subject_id"); !ok {
		return filter, false
	}
	if filter.TopicID, ok = queryID(c, "topic_id"); !ok {
		return filter, false
	}
	if raw := c.Query("difficulty_level"); raw != "" {
		filter.Difficulty = &raw
	}
	return filter, true
}

// GetAll godoc
// GET /api/v1/questions?exam_subject_id=&topic_id=&difficulty_level=
func (h *QuestionHandler) GetAll(c *gin.Context) {
	page, limit := pageQuery(c)
	filter, ok := questionFilterQuery(c)
	if !ok {
		return
	}

	questions, window, err := h.questionService.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"questions": questions}, window)
}

// GetByID godoc
// GET /api/v1/questions/:id
func (h *QuestionHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Create godoc
// POST /api/v1/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PATCH /api/v1/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.QuestionPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/v1/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "question deleted"})
}
