package service

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/pagination"
)

// sessionStore is the persistence surface the session service needs.
// Satisfied by *repository.SessionRepository.
type sessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	End(ctx context.Context, id int64) (int64, error)
	ReplaceSettings(ctx context.Context, id int64, settings map[string]any) (int64, error)
	Count(ctx context.Context, filter model.SessionFilter) (int64, error)
	List(ctx context.Context, filter model.SessionFilter, limit, offset int) ([]model.Session, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CreateAnswer(ctx context.Context, a *model.Answer) error
	GetAnswerByID(ctx context.Context, id int64) (*model.Answer, error)
	ListAnswersBySession(ctx context.Context, sessionID int64) ([]model.Answer, error)
	CountAnswers(ctx context.Context) (int64, error)
	ListAnswers(ctx context.Context, limit, offset int) ([]model.Answer, error)
	UpdateAnswer(ctx context.Context, id int64, patch *model.AnswerPatch) (int64, error)
	DeleteAnswer(ctx context.Context, id int64) (int64, error)
}

// questionFinder resolves questions to their canonical answers.
// Satisfied by *repository.QuestionRepository.
type questionFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Question, error)
}

// examSubjectChecker verifies exam-subject references.
// Satisfied by *repository.ExamSubjectRepository.
type examSubjectChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ActivityRecorder receives fire-and-forget activity events for the stats
// worker. May be nil, in which case events are dropped.
type ActivityRecorder interface {
	SessionStarted(ctx context.Context, examSubjectID int64)
	SessionEnded(ctx context.Context, examSubjectID int64)
	AnswerSubmitted(ctx context.Context, examSubjectID int64)
}

// SessionService owns the session lifecycle, answer recording and result
// aggregation. Sessions move Active → Ended exactly once; answers are
// append-only while the session is active; results are always recomputed
// from the recorded answers, never stored.
type SessionService struct {
	sessions     sessionStore
	questions    questionFinder
	examSubjects examSubjectChecker
	activity     ActivityRecorder
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessions sessionStore,
	questions questionFinder,
	examSubjects examSubjectChecker,
	activity ActivityRecorder,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessions:     sessions,
		questions:    questions,
		examSubjects: examSubjects,
		activity:     activity,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// canAccess reports whether the requester may touch the session: the owner
// or an administrator.
func canAccess(requester Identity, session *model.Session) bool {
	return requester.IsAdmin() || requester.UserID == session.UserID
}

// loadSession fetches a session, mapping missing rows to NotFound and
// enforcing ownership.
func (s *SessionService) loadSession(ctx context.Context, id int64, requester Identity) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("session not found")
		}
		return nil, apperr.Storagef("get session", err)
	}
	if !canAccess(requester, session) {
		return nil, apperr.Authorization("not authorized to access this session")
	}
	return session, nil
}

// Start creates a new session for the requester. The question count is
// snapshotted here and becomes the score denominator for the whole attempt.
func (s *SessionService) Start(ctx context.Context, requester Identity, req *model.StartSessionRequest) (*model.Session, error) {
	if req.TotalQuestions <= 0 {
		return nil, apperr.Validation("total_questions must be a positive integer")
	}

	exists, err := s.examSubjects.Exists(ctx, req.ExamSubjectID)
	if err != nil {
		return nil, apperr.Storagef("check exam subject", err)
	}
	if !exists {
		return nil, apperr.Validation("invalid exam subject")
	}

	sessionType := model.SessionType(req.SessionType)
	if sessionType == "" {
		sessionType = model.SessionTypePractice
	}

	session := &model.Session{
		UserID:               requester.UserID,
		ExamSubjectID:        req.ExamSubjectID,
		TotalQuestions:       req.TotalQuestions,
		TimeAllocatedSeconds: req.TimeAllocatedSeconds,
		SessionType:          sessionType,
		Settings:             req.Settings,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Storagef("create session", err)
	}

	if s.activity != nil {
		s.activity.SessionStarted(ctx, session.ExamSubjectID)
	}

	s.log.Info().
		Int64("session_id", session.ID).
		Int64("user_id", session.UserID).
		Str("type", string(session.SessionType)).
		Msg("Session started")
	return session, nil
}

// Get retrieves one session for its owner or an administrator.
func (s *SessionService) Get(ctx context.Context, requester Identity, id int64) (*model.Session, error) {
	return s.loadSession(ctx, id, requester)
}

// End stamps the end time exactly once. Ending an already-ended session is
// a conflict, not a no-op.
func (s *SessionService) End(ctx context.Context, requester Identity, id int64) (*model.Session, error) {
	session, err := s.loadSession(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, apperr.Conflict("session already ended")
	}

	n, err := s.sessions.End(ctx, id)
	if err != nil {
		return nil, apperr.Storagef("end session", err)
	}
	if n == 0 {
		// A concurrent caller won the race.
		return nil, apperr.Conflict("session already ended")
	}

	if s.activity != nil {
		s.activity.SessionEnded(ctx, session.ExamSubjectID)
	}

	ended, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storagef("get session", err)
	}
	s.log.Info().Int64("session_id", id).Msg("Session ended")
	return ended, nil
}

// UpdateSettings replaces the settings map wholesale. Settings are immutable
// once the session has ended.
func (s *SessionService) UpdateSettings(ctx context.Context, requester Identity, id int64, settings map[string]any) (*model.Session, error) {
	session, err := s.loadSession(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, apperr.Conflict("session already ended")
	}

	n, err := s.sessions.ReplaceSettings(ctx, id, settings)
	if err != nil {
		return nil, apperr.Storagef("update settings", err)
	}
	if n == 0 {
		return nil, apperr.Conflict("session already ended")
	}

	return s.sessions.GetByID(ctx, id)
}

// List retrieves a page of sessions. Students see only their own; listing by
// exam-subject is restricted to administrators and content creators.
func (s *SessionService) List(ctx context.Context, requester Identity, filter model.SessionFilter, page, limit int) ([]model.Session, pagination.Page, error) {
	if filter.UserID != nil && *filter.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, pagination.Page{}, apperr.Authorization("not authorized to list sessions for this user")
	}
	if filter.ExamSubjectID != nil && !requester.CanManageContent() {
		return nil, pagination.Page{}, apperr.Authorization("not authorized to list sessions by exam subject")
	}
	if filter.UserID == nil && filter.ExamSubjectID == nil && !requester.IsAdmin() {
		// Default scope for non-admins is their own history.
		uid := requester.UserID
		filter.UserID = &uid
	}

	total, err := s.sessions.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count sessions", err)
	}
	window := pagination.Paginate(total, page, limit)

	sessions, err := s.sessions.List(ctx, filter, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list sessions", err)
	}
	return sessions, window, nil
}

// Delete removes a session and its answers. Administrative override only;
// the scoring flow itself never deletes.
func (s *SessionService) Delete(ctx context.Context, requester Identity, id int64) error {
	if !requester.IsAdmin() {
		return apperr.Authorization("session deletion is admin-only")
	}
	n, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return apperr.Storagef("delete session", err)
	}
	if n == 0 {
		return apperr.NotFound("session not found")
	}
	return nil
}

// SubmitAnswer records one response and classifies it against the question's
// canonical answer using exact string equality: case-sensitive, untrimmed.
// Submitting twice for the same question creates two records; the aggregator
// counts both.
func (s *SessionService) SubmitAnswer(ctx context.Context, requester Identity, sessionID int64, req *model.SubmitAnswerRequest) (*model.Answer, error) {
	session, err := s.loadSession(ctx, sessionID, requester)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, apperr.Conflict("session already ended")
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Validation("invalid question")
		}
		return nil, apperr.Storagef("get question", err)
	}

	answer := &model.Answer{
		SessionID:        sessionID,
		QuestionID:       question.ID,
		SubmittedAnswer:  req.SubmittedAnswer,
		IsCorrect:        req.SubmittedAnswer == question.CorrectAnswer,
		TimeTakenSeconds: req.TimeTakenSeconds,
	}

	if err := s.sessions.CreateAnswer(ctx, answer); err != nil {
		return nil, apperr.Storagef("create answer", err)
	}

	if s.activity != nil {
		s.activity.AnswerSubmitted(ctx, session.ExamSubjectID)
	}

	return answer, nil
}

// roundScore rounds a percentage to two decimal places.
func roundScore(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeResults aggregates a session's answers into a result summary.
// Read-only; valid on active and ended sessions alike, so clients can show
// live progress. The denominator is the snapshotted question count, not the
// number of answers: unanswered questions count against the score.
func (s *SessionService) ComputeResults(ctx context.Context, requester Identity, sessionID int64) (*model.SessionResult, error) {
	session, err := s.loadSession(ctx, sessionID, requester)
	if err != nil {
		return nil, err
	}

	answers, err := s.sessions.ListAnswersBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storagef("list answers", err)
	}

	correct := 0
	totalTime := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
		if a.TimeTakenSeconds != nil {
			totalTime += *a.TimeTakenSeconds
		}
	}

	score := 0.0
	if session.TotalQuestions > 0 {
		score = roundScore(float64(correct) / float64(session.TotalQuestions) * 100)
	}

	if answers == nil {
		answers = []model.Answer{}
	}

	return &model.SessionResult{
		SessionID:             session.ID,
		UserID:                session.UserID,
		ExamSubjectID:         session.ExamSubjectID,
		StartTime:             session.StartTime,
		EndTime:               session.EndTime,
		TotalQuestions:        session.TotalQuestions,
		TotalAnswered:         len(answers),
		CorrectAnswers:        correct,
		IncorrectAnswers:      len(answers) - correct,
		ScorePercentage:       score,
		TotalTimeTakenSeconds: totalTime,
		Answers:               answers,
	}, nil
}

// ListSessionAnswers returns a session's answers in submission order.
func (s *SessionService) ListSessionAnswers(ctx context.Context, requester Identity, sessionID int64) ([]model.Answer, error) {
	if _, err := s.loadSession(ctx, sessionID, requester); err != nil {
		return nil, err
	}
	answers, err := s.sessions.ListAnswersBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storagef("list answers", err)
	}
	return answers, nil
}

// GetAnswer retrieves one answer, enforcing session ownership.
func (s *SessionService) GetAnswer(ctx context.Context, requester Identity, answerID int64) (*model.Answer, error) {
	answer, err := s.sessions.GetAnswerByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("answer not found")
		}
		return nil, apperr.Storagef("get answer", err)
	}
	if _, err := s.loadSession(ctx, answer.SessionID, requester); err != nil {
		return nil, err
	}
	return answer, nil
}

// ListAllAnswers retrieves a page of answers across all sessions. Admin-only.
func (s *SessionService) ListAllAnswers(ctx context.Context, requester Identity, page, limit int) ([]model.Answer, pagination.Page, error) {
	if !requester.IsAdmin() {
		return nil, pagination.Page{}, apperr.Authorization("answer listing is admin-only")
	}

	total, err := s.sessions.CountAnswers(ctx)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("count answers", err)
	}
	window := pagination.Paginate(total, page, limit)

	answers, err := s.sessions.ListAnswers(ctx, window.Limit, window.Offset)
	if err != nil {
		return nil, pagination.Page{}, apperr.Storagef("list answers", err)
	}
	return answers, window, nil
}

// CorrectAnswer applies an administrative override to a recorded answer.
// Outside the scoring core: the normal flow never mutates answers.
func (s *SessionService) CorrectAnswer(ctx context.Context, requester Identity, answerID int64, patch *model.AnswerPatch) (*model.Answer, error) {
	if !requester.IsAdmin() {
		return nil, apperr.Authorization("answer correction is admin-only")
	}
	if patch.Empty() {
		return nil, apperr.Validation("no fields provided for update")
	}

	n, err := s.sessions.UpdateAnswer(ctx, answerID, patch)
	if err != nil {
		return nil, apperr.Storagef("update answer", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("answer not found")
	}

	answer, err := s.sessions.GetAnswerByID(ctx, answerID)
	if err != nil {
		return nil, apperr.Storagef("get answer", err)
	}
	return answer, nil
}

// DeleteAnswer removes an answer record. Administrative override only.
func (s *SessionService) DeleteAnswer(ctx context.Context, requester Identity, answerID int64) error {
	if !requester.IsAdmin() {
		return apperr.Authorization("answer deletion is admin-only")
	}
	n, err := s.sessions.DeleteAnswer(ctx, answerID)
	if err != nil {
		return apperr.Storagef("delete answer", err)
	}
	if n == 0 {
		return apperr.NotFound("answer not found")
	}
	return nil
}
