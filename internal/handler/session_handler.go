package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/middleware"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
)

// SessionHandler handles the session lifecycle, answer submission and
// result reporting.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func requireIdentity(c *gin.Context) (service.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	}
	return identity, ok
}

// Start godoc
// POST /api/v1/sessions
func (h *SessionHandler) Start(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), identity, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// GetAll godoc
// GET /api/v1/sessions?user_id=&exam_subject_id=
func (h *SessionHandler) GetAll(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	var filter model.SessionFilter
	if filter.UserID, ok = queryID(c, "user_id"); !ok {
		return
	}
	if filter.ExamSubjectID, ok = queryID(c, "exam_subject_id"); !ok {
		return
	}

	sessions, window, err := h.sessionService.List(c.Request.Context(), identity, filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"sessions": sessions}, window)
}

// GetByID godoc
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetByID(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), identity, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// End godoc
// POST /api/v1/sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.End(c.Request.Context(), identity, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// UpdateSettings godoc
// PUT /api/v1/sessions/:id/settings
func (h *SessionHandler) UpdateSettings(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSessionSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.UpdateSettings(c.Request.Context(), identity, id, req.Settings)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// SubmitAnswer godoc
// POST /api/v1/sessions/:id/answers
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.sessionService.SubmitAnswer(c.Request.Context(), identity, id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"answer": answer})
}

// GetAnswers godoc
// GET /api/v1/sessions/:id/answers
func (h *SessionHandler) GetAnswers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	answers, err := h.sessionService.ListSessionAnswers(c.Request.Context(), identity, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// GetResults godoc
// GET /api/v1/sessions/:id/results
func (h *SessionHandler) GetResults(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.sessionService.ComputeResults(c.Request.Context(), identity, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Delete godoc
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), identity, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "session deleted"})
}

// GetAllAnswers godoc
// GET /api/v1/answers
func (h *SessionHandler) GetAllAnswers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	answers, window, err := h.sessionService.ListAllAnswers(c.Request.Context(), identity, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"answers": answers}, window)
}

// GetAnswerByID godoc
// GET /api/v1/answers/:id
func (h *SessionHandler) GetAnswerByID(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	answer, err := h.sessionService.GetAnswer(c.Request.Context(), identity, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// CorrectAnswer godoc
// PATCH /api/v1/answers/:id
func (h *SessionHandler) CorrectAnswer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.AnswerPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.sessionService.CorrectAnswer(c.Request.Context(), identity, id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// DeleteAnswer godoc
// DELETE /api/v1/answers/:id
func (h *SessionHandler) DeleteAnswer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteAnswer(c.Request.Context(), identity, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "answer deleted"})
}
