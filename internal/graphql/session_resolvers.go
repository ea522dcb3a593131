package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/prepforge/cbt-backend/internal/model"
)

func (r *Resolver) resolveStudentSession(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.sessions.Get(p.Context, identity, id)
}

func (r *Resolver) resolveStudentSessionsByUser(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	userID, err := argID(p, "userId")
	if err != nil {
		return nil, err
	}
	page, limit := pageArgs(p)
	sessions, _, err := r.sessions.List(p.Context, identity, model.SessionFilter{UserID: &userID}, page, limit)
	return sessions, err
}

func (r *Resolver) resolveStudentSessionsByExamSubject(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	examSubjectID, err := argID(p, "examSubjectId")
	if err != nil {
		return nil, err
	}
	page, limit := pageArgs(p)
	sessions, _, err := r.sessions.List(p.Context, identity, model.SessionFilter{ExamSubjectID: &examSubjectID}, page, limit)
	return sessions, err
}

func (r *Resolver) resolveStudentSessionResults(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	sessionID, err := argID(p, "sessionId")
	if err != nil {
		return nil, err
	}
	return r.sessions.ComputeResults(p.Context, identity, sessionID)
}

func (r *Resolver) resolveStartStudentSession(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	examSubjectID, err := argID(p, "examSubjectId")
	if err != nil {
		return nil, err
	}
	totalQuestions, err := argID(p, "totalQuestions")
	if err != nil {
		return nil, err
	}

	req := &model.StartSessionRequest{
		ExamSubjectID:        examSubjectID,
		TotalQuestions:       int(totalQuestions),
		TimeAllocatedSeconds: optInt(p, "timeAllocatedSeconds"),
		Settings:             settingsArg(p.Args["settings"]),
	}
	if sessionType := optString(p, "sessionType"); sessionType != nil {
		req.SessionType = *sessionType
	}
	return r.sessions.Start(p.Context, identity, req)
}

func (r *Resolver) resolveEndStudentSession(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	sessionID, err := argID(p, "sessionId")
	if err != nil {
		return nil, err
	}
	return r.sessions.End(p.Context, identity, sessionID)
}

func (r *Resolver) resolveUpdateStudentSessionSettings(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	sessionID, err := argID(p, "sessionId")
	if err != nil {
		return nil, err
	}
	settings := settingsArg(p.Args["settings"])
	if settings == nil {
		return nil, errMissingArg("settings")
	}
	return r.sessions.UpdateSettings(p.Context, identity, sessionID, settings)
}

func (r *Resolver) resolveSubmitStudentAnswer(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	sessionID, err := argID(p, "sessionId")
	if err != nil {
		return nil, err
	}
	questionID, err := argID(p, "questionId")
	if err != nil {
		return nil, err
	}
	submittedAnswer, err := argString(p, "submittedAnswer")
	if err != nil {
		return nil, err
	}

	return r.sessions.SubmitAnswer(p.Context, identity, sessionID, &model.SubmitAnswerRequest{
		QuestionID:       questionID,
		SubmittedAnswer:  submittedAnswer,
		TimeTakenSeconds: optInt(p, "timeTakenSeconds"),
	})
}
