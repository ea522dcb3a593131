package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
)

// ExamHandler handles exams and their subject pairings.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// GetAll godoc
// GET /api/v1/exams?is_active=true
func (h *ExamHandler) GetAll(c *gin.Context) {
	page, limit := pageQuery(c)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		isActive = &v
	}

	exams, window, err := h.examService.List(c.Request.Context(), isActive, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, window)
}

// GetByID godoc
// GET /api/v1/exams/:id
func (h *ExamHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	exam, err := h.examService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Create godoc
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// Update godoc
// PATCH /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.ExamPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Delete godoc
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "exam deleted"})
}

// GetSubjects godoc
// GET /api/v1/exams/:id/subjects
func (h *ExamHandler) GetSubjects(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	pairs, err := h.examService.ListSubjectsByExam(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if pairs == nil {
		pairs = []model.ExamSubject{}
	}
	response.Success(c, http.StatusOK, gin.H{"exam_subjects": pairs})
}

// AddSubject godoc
// POST /api/v1/exams/:id/subjects
func (h *ExamHandler) AddSubject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.CreateExamSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	req.ExamID = id

	pair, err := h.examService.AddSubject(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam_subject": pair})
}

// GetSubjectPairing godoc
// GET /api/v1/exam-subjects/:id
func (h *ExamHandler) GetSubjectPairing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	pair, err := h.examService.GetSubjectPairing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam_subject": pair})
}

// UpdateSubjectPairing godoc
// PATCH /api/v1/exam-subjects/:id
func (h *ExamHandler) UpdateSubjectPairing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.ExamSubjectPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pair, err := h.examService.UpdateSubjectPairing(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam_subject": pair})
}

// RemoveSubjectPairing godoc
// DELETE /api/v1/exam-subjects/:id
func (h *ExamHandler) RemoveSubjectPairing(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.examService.RemoveSubjectPairing(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "exam subject removed"})
}
