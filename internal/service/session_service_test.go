package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
)

type fakeSessionStore struct {
	sessions map[int64]*model.Session
	answers  map[int64]*model.Answer

	nextSessionID int64
	nextAnswerID  int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*model.Session),
		answers:  make(map[int64]*model.Answer),
	}
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.Session) error {
	f.nextSessionID++
	s.ID = f.nextSessionID
	s.StartTime = time.Now()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id int64) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) End(_ context.Context, id int64) (int64, error) {
	s, ok := f.sessions[id]
	if !ok || s.EndTime != nil {
		return 0, nil
	}
	now := time.Now()
	s.EndTime = &now
	return 1, nil
}

func (f *fakeSessionStore) ReplaceSettings(_ context.Context, id int64, settings map[string]any) (int64, error) {
	s, ok := f.sessions[id]
	if !ok || s.EndTime != nil {
		return 0, nil
	}
	s.Settings = settings
	return 1, nil
}

func (f *fakeSessionStore) Count(_ context.Context, filter model.SessionFilter) (int64, error) {
	var n int64
	for _, s := range f.sessions {
		if matchesFilter(s, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionStore) List(_ context.Context, filter model.SessionFilter, limit, offset int) ([]model.Session, error) {
	var out []model.Session
	for _, s := range f.sessions {
		if matchesFilter(s, filter) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func matchesFilter(s *model.Session, filter model.SessionFilter) bool {
	if filter.UserID != nil && s.UserID != *filter.UserID {
		return false
	}
	if filter.ExamSubjectID != nil && s.ExamSubjectID != *filter.ExamSubjectID {
		return false
	}
	return true
}

func (f *fakeSessionStore) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := f.sessions[id]; !ok {
		return 0, nil
	}
	delete(f.sessions, id)
	return 1, nil
}

func (f *fakeSessionStore) CreateAnswer(_ context.Context, a *model.Answer) error {
	f.nextAnswerID++
	a.ID = f.nextAnswerID
	a.SubmittedAt = time.Now()
	cp := *a
	f.answers[a.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetAnswerByID(_ context.Context, id int64) (*model.Answer, error) {
	a, ok := f.answers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeSessionStore) ListAnswersBySession(_ context.Context, sessionID int64) ([]model.Answer, error) {
	var out []model.Answer
	for id := int64(1); id <= f.nextAnswerID; id++ {
		if a, ok := f.answers[id]; ok && a.SessionID == sessionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) CountAnswers(_ context.Context) (int64, error) {
	return int64(len(f.answers)), nil
}

func (f *fakeSessionStore) ListAnswers(_ context.Context, limit, offset int) ([]model.Answer, error) {
	var out []model.Answer
	for id := int64(1); id <= f.nextAnswerID; id++ {
		if a, ok := f.answers[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) UpdateAnswer(_ context.Context, id int64, patch *model.AnswerPatch) (int64, error) {
	a, ok := f.answers[id]
	if !ok {
		return 0, nil
	}
	if patch.SubmittedAnswer != nil {
		a.SubmittedAnswer = *patch.SubmittedAnswer
	}
	if patch.IsCorrect != nil {
		a.IsCorrect = *patch.IsCorrect
	}
	if patch.TimeTakenSeconds != nil {
		a.TimeTakenSeconds = patch.TimeTakenSeconds
	}
	return 1, nil
}

func (f *fakeSessionStore) DeleteAnswer(_ context.Context, id int64) (int64, error) {
	if _, ok := f.answers[id]; !ok {
		return 0, nil
	}
	delete(f.answers, id)
	return 1, nil
}

type fakeQuestionFinder struct {
	questions map[int64]*model.Question
}

func (f *fakeQuestionFinder) GetByID(_ context.Context, id int64) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

type fakeExamSubjectChecker struct {
	known map[int64]bool
}

func (f *fakeExamSubjectChecker) Exists(_ context.Context, id int64) (bool, error) {
	return f.known[id], nil
}

type fakeActivityRecorder struct {
	started, ended, submitted int
}

func (f *fakeActivityRecorder) SessionStarted(context.Context, int64)  { f.started++ }
func (f *fakeActivityRecorder) SessionEnded(context.Context, int64)    { f.ended++ }
func (f *fakeActivityRecorder) AnswerSubmitted(context.Context, int64) { f.submitted++ }

var (
	student      = Identity{UserID: 10, Role: model.RoleStudent}
	otherStudent = Identity{UserID: 11, Role: model.RoleStudent}
	admin        = Identity{UserID: 1, Role: model.RoleAdministrator}
	creator      = Identity{UserID: 2, Role: model.RoleContentCreator}
)

func newTestService() (*SessionService, *fakeSessionStore, *fakeQuestionFinder, *fakeActivityRecorder) {
	store := newFakeSessionStore()
	questions := &fakeQuestionFinder{questions: map[int64]*model.Question{
		100: {ID: 100, ExamSubjectID: 5, CorrectAnswer: "A"},
		101: {ID: 101, ExamSubjectID: 5, CorrectAnswer: "B"},
		102: {ID: 102, ExamSubjectID: 5, CorrectAnswer: "Paris"},
	}}
	examSubjects := &fakeExamSubjectChecker{known: map[int64]bool{5: true}}
	activity := &fakeActivityRecorder{}
	svc := NewSessionService(store, questions, examSubjects, activity, zerolog.Nop())
	return svc, store, questions, activity
}

func startSession(t *testing.T, svc *SessionService, requester Identity, total int) *model.Session {
	t.Helper()
	session, err := svc.Start(context.Background(), requester, &model.StartSessionRequest{
		ExamSubjectID:  5,
		TotalQuestions: total,
	})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return session
}

func TestStartSessionDefaultsToPractice(t *testing.T) {
	svc, _, _, activity := newTestService()

	session := startSession(t, svc, student, 5)
	if session.SessionType != model.SessionTypePractice {
		t.Errorf("session type = %q, want %q", session.SessionType, model.SessionTypePractice)
	}
	if session.UserID != student.UserID {
		t.Errorf("session user = %d, want %d", session.UserID, student.UserID)
	}
	if activity.started != 1 {
		t.Errorf("started events = %d, want 1", activity.started)
	}
}

func TestStartSessionRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Start(ctx, student, &model.StartSessionRequest{ExamSubjectID: 5, TotalQuestions: 0})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("zero total_questions: got %v, want validation error", err)
	}

	_, err = svc.Start(ctx, student, &model.StartSessionRequest{ExamSubjectID: 999, TotalQuestions: 5})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("unknown exam subject: got %v, want validation error", err)
	}
}

func TestEndSessionIsTerminal(t *testing.T) {
	svc, _, _, activity := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	ended, err := svc.End(ctx, student, session.ID)
	if err != nil {
		t.Fatalf("first end: %v", err)
	}
	if ended.EndTime == nil {
		t.Fatal("end time not set")
	}
	if activity.ended != 1 {
		t.Errorf("ended events = %d, want 1", activity.ended)
	}

	_, err = svc.End(ctx, student, session.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("second end: got %v, want conflict", err)
	}
}

// racingStore simulates a concurrent caller ending the session between the
// service's read and its conditional update.
type racingStore struct {
	*fakeSessionStore
}

func (r *racingStore) End(context.Context, int64) (int64, error) { return 0, nil }

func (r *racingStore) ReplaceSettings(context.Context, int64, map[string]any) (int64, error) {
	return 0, nil
}

func TestEndSessionConcurrentRace(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(&racingStore{store}, nil, &fakeExamSubjectChecker{known: map[int64]bool{5: true}}, nil, zerolog.Nop())
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	// The read sees an active session; the update touches zero rows.
	if _, err := svc.End(ctx, student, session.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("end: got %v, want conflict", err)
	}
	if _, err := svc.UpdateSettings(ctx, student, session.ID, map[string]any{"shuffle": true}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("update settings: got %v, want conflict", err)
	}
}

func TestSessionAuthorization(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	if _, err := svc.Get(ctx, otherStudent, session.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("other student get: got %v, want authorization error", err)
	}
	if _, err := svc.Get(ctx, admin, session.ID); err != nil {
		t.Errorf("admin get: %v", err)
	}
	if _, err := svc.Get(ctx, student, 999); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing session: got %v, want not found", err)
	}
}

func TestUpdateSettingsAfterEnd(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	updated, err := svc.UpdateSettings(ctx, student, session.ID, map[string]any{"shuffle": true})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if v, ok := updated.Settings["shuffle"].(bool); !ok || !v {
		t.Errorf("settings = %v, want shuffle=true", updated.Settings)
	}

	if _, err := svc.End(ctx, student, session.ID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.UpdateSettings(ctx, student, session.ID, map[string]any{"shuffle": false})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("settings after end: got %v, want conflict", err)
	}
}

func TestSubmitAnswerGrading(t *testing.T) {
	svc, _, _, activity := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	cases := []struct {
		name      string
		question  int64
		submitted string
		correct   bool
	}{
		{"exact match", 100, "A", true},
		{"wrong letter", 100, "B", false},
		{"case sensitive", 100, "a", false},
		{"short answer match", 102, "Paris", true},
		{"short answer untrimmed", 102, " Paris", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answer, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
				QuestionID:      tc.question,
				SubmittedAnswer: tc.submitted,
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if answer.IsCorrect != tc.correct {
				t.Errorf("is_correct = %v, want %v", answer.IsCorrect, tc.correct)
			}
		})
	}
	if activity.submitted != len(cases) {
		t.Errorf("submitted events = %d, want %d", activity.submitted, len(cases))
	}
}

func TestSubmitAnswerRejections(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	_, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{QuestionID: 999, SubmittedAnswer: "A"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("unknown question: got %v, want validation error", err)
	}

	_, err = svc.SubmitAnswer(ctx, otherStudent, session.ID, &model.SubmitAnswerRequest{QuestionID: 100, SubmittedAnswer: "A"})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("other student submit: got %v, want authorization error", err)
	}

	if _, err := svc.End(ctx, student, session.ID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{QuestionID: 100, SubmittedAnswer: "A"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("submit after end: got %v, want conflict", err)
	}
}

func TestDuplicateSubmissionsBothCount(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 4)

	// Same question answered twice, once right and once wrong. Both rows
	// survive and both count toward the totals.
	for _, submitted := range []string{"A", "B"} {
		if _, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
			QuestionID:      100,
			SubmittedAnswer: submitted,
		}); err != nil {
			t.Fatal(err)
		}
	}

	result, err := svc.ComputeResults(ctx, student, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalAnswered != 2 {
		t.Errorf("total answered = %d, want 2", result.TotalAnswered)
	}
	if result.CorrectAnswers != 1 || result.IncorrectAnswers != 1 {
		t.Errorf("correct/incorrect = %d/%d, want 1/1", result.CorrectAnswers, result.IncorrectAnswers)
	}
	if result.ScorePercentage != 25.0 {
		t.Errorf("score = %v, want 25.0", result.ScorePercentage)
	}
}

func TestComputeResults(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	ten := 10
	submissions := []struct {
		question  int64
		submitted string
		taken     *int
	}{
		{100, "A", &ten},
		{101, "B", &ten},
		{102, "London", nil},
	}
	for _, sub := range submissions {
		if _, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
			QuestionID:       sub.question,
			SubmittedAnswer:  sub.submitted,
			TimeTakenSeconds: sub.taken,
		}); err != nil {
			t.Fatal(err)
		}
	}

	result, err := svc.ComputeResults(ctx, student, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalQuestions != 5 {
		t.Errorf("total questions = %d, want 5", result.TotalQuestions)
	}
	if result.CorrectAnswers != 2 {
		t.Errorf("correct = %d, want 2", result.CorrectAnswers)
	}
	// 2 of 5, not 2 of 3: unanswered questions count against the score.
	if result.ScorePercentage != 40.0 {
		t.Errorf("score = %v, want 40.0", result.ScorePercentage)
	}
	if result.TotalTimeTakenSeconds != 20 {
		t.Errorf("total time = %d, want 20", result.TotalTimeTakenSeconds)
	}
	if len(result.Answers) != 3 {
		t.Errorf("answers = %d, want 3", len(result.Answers))
	}
}

func TestComputeResultsEmptySession(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	result, err := svc.ComputeResults(ctx, student, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.ScorePercentage != 0.0 {
		t.Errorf("score = %v, want 0", result.ScorePercentage)
	}
	if result.Answers == nil {
		t.Error("answers should be an empty slice, not nil")
	}
}

func TestComputeResultsRounding(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 3)

	if _, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
		QuestionID:      100,
		SubmittedAnswer: "A",
	}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.ComputeResults(ctx, student, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	// 1/3 of 100 rounds to two decimals.
	if result.ScorePercentage != 33.33 {
		t.Errorf("score = %v, want 33.33", result.ScorePercentage)
	}
}

func TestListScoping(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	startSession(t, svc, student, 5)
	startSession(t, svc, otherStudent, 5)

	// Without a filter, a student only sees their own sessions.
	sessions, _, err := svc.List(ctx, student, model.SessionFilter{}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].UserID != student.UserID {
		t.Errorf("student default list = %v, want only own sessions", sessions)
	}

	// Filtering on someone else's history is admin-only.
	other := otherStudent.UserID
	if _, _, err := svc.List(ctx, student, model.SessionFilter{UserID: &other}, 1, 20); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("cross-user filter: got %v, want authorization error", err)
	}
	if _, _, err := svc.List(ctx, admin, model.SessionFilter{UserID: &other}, 1, 20); err != nil {
		t.Errorf("admin cross-user filter: %v", err)
	}

	// Listing by exam subject is for content managers.
	es := int64(5)
	if _, _, err := svc.List(ctx, student, model.SessionFilter{ExamSubjectID: &es}, 1, 20); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("student exam-subject filter: got %v, want authorization error", err)
	}
	if _, _, err := svc.List(ctx, creator, model.SessionFilter{ExamSubjectID: &es}, 1, 20); err != nil {
		t.Errorf("creator exam-subject filter: %v", err)
	}
}

func TestDeleteSessionAdminOnly(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)

	if err := svc.Delete(ctx, student, session.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("owner delete: got %v, want authorization error", err)
	}
	if err := svc.Delete(ctx, admin, session.ID); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, session.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("delete missing: got %v, want not found", err)
	}
}

func TestCorrectAnswerOverride(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)
	answer, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
		QuestionID:      100,
		SubmittedAnswer: "B",
	})
	if err != nil {
		t.Fatal(err)
	}
	if answer.IsCorrect {
		t.Fatal("answer should be graded incorrect")
	}

	correct := true
	if _, err := svc.CorrectAnswer(ctx, student, answer.ID, &model.AnswerPatch{IsCorrect: &correct}); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("student correction: got %v, want authorization error", err)
	}
	if _, err := svc.CorrectAnswer(ctx, admin, answer.ID, &model.AnswerPatch{}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("empty patch: got %v, want validation error", err)
	}

	patched, err := svc.CorrectAnswer(ctx, admin, answer.ID, &model.AnswerPatch{IsCorrect: &correct})
	if err != nil {
		t.Fatal(err)
	}
	if !patched.IsCorrect {
		t.Error("override did not stick")
	}

	result, err := svc.ComputeResults(ctx, student, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.CorrectAnswers != 1 {
		t.Errorf("correct after override = %d, want 1", result.CorrectAnswers)
	}
}

func TestGetAnswerOwnership(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	session := startSession(t, svc, student, 5)
	answer, err := svc.SubmitAnswer(ctx, student, session.ID, &model.SubmitAnswerRequest{
		QuestionID:      100,
		SubmittedAnswer: "A",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetAnswer(ctx, otherStudent, answer.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("other student: got %v, want authorization error", err)
	}
	got, err := svc.GetAnswer(ctx, student, answer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != answer.ID {
		t.Errorf("answer id = %d, want %d", got.ID, answer.ID)
	}
}
