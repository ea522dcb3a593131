package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/prepforge/cbt-backend/internal/model"
)

// Subjects and topics

func (r *Resolver) resolveSubject(p gql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.subjects.Get(p.Context, id)
}

func (r *Resolver) resolveSubjects(p gql.ResolveParams) (any, error) {
	page, limit := pageArgs(p)
	subjects, _, err := r.subjects.List(p.Context, page, limit)
	return subjects, err
}

func (r *Resolver) resolveTopic(p gql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.topics.Get(p.Context, id)
}

func (r *Resolver) resolveTopicsBySubject(p gql.ResolveParams) (any, error) {
	subjectID, err := argID(p, "subjectId")
	if err != nil {
		return nil, err
	}
	return r.topics.ListBySubject(p.Context, subjectID)
}

func (r *Resolver) resolveCreateSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	name, err := argString(p, "name")
	if err != nil {
		return nil, err
	}
	return r.subjects.Create(p.Context, &model.CreateSubjectRequest{
		Name:        name,
		Code:        optString(p, "code"),
		Description: optString(p, "description"),
	})
}

func (r *Resolver) resolveUpdateSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.subjects.Update(p.Context, id, &model.SubjectPatch{
		Name:        optString(p, "name"),
		Code:        optString(p, "code"),
		Description: optString(p, "description"),
	})
}

func (r *Resolver) resolveDeleteSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.subjects.Delete(p.Context, id); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) resolveCreateTopic(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	subjectID, err := argID(p, "subjectId")
	if err != nil {
		return nil, err
	}
	name, err := argString(p, "name")
	if err != nil {
		return nil, err
	}
	return r.topics.Create(p.Context, &model.CreateTopicRequest{
		SubjectID:   subjectID,
		Name:        name,
		Description: optString(p, "description"),
	})
}

func (r *Resolver) resolveUpdateTopic(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.topics.Update(p.Context, id, &model.TopicPatch{
		Name:        optString(p, "name"),
		Description: optString(p, "description"),
	})
}

func (r *Resolver) resolveDeleteTopic(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.topics.Delete(p.Context, id); err != nil {
		return nil, err
	}
	return true, nil
}

// Exams and exam-subject pairings

func (r *Resolver) resolveExam(p gql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.exams.Get(p.Context, id)
}

func (r *Resolver) resolveExams(p gql.ResolveParams) (any, error) {
	page, limit := pageArgs(p)
	exams, _, err := r.exams.List(p.Context, optBool(p, "isActive"), page, limit)
	return exams, err
}

func (r *Resolver) resolveExamSubject(p gql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.exams.GetSubjectPairing(p.Context, id)
}

func (r *Resolver) resolveExamSubjectsByExam(p gql.ResolveParams) (any, error) {
	examID, err := argID(p, "examId")
	if err != nil {
		return nil, err
	}
	return r.exams.ListSubjectsByExam(p.Context, examID)
}

func (r *Resolver) resolveExamSubjectsBySubject(p gql.ResolveParams) (any, error) {
	subjectID, err := argID(p, "subjectId")
	if err != nil {
		return nil, err
	}
	return r.exams.ListExamsBySubject(p.Context, subjectID)
}

func (r *Resolver) resolveCreateExam(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	name, err := argString(p, "name")
	if err != nil {
		return nil, err
	}
	abbreviation, err := argString(p, "abbreviation")
	if err != nil {
		return nil, err
	}
	return r.exams.Create(p.Context, &model.CreateExamRequest{
		Name:         name,
		Abbreviation: abbreviation,
		Description:  optString(p, "description"),
		IsActive:     optBool(p, "isActive"),
	})
}

func (r *Resolver) resolveUpdateExam(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.exams.Update(p.Context, id, &model.ExamPatch{
		Name:         optString(p, "name"),
		Abbreviation: optString(p, "abbreviation"),
		Description:  optString(p, "description"),
		IsActive:     optBool(p, "isActive"),
	})
}

func (r *Resolver) resolveDeleteExam(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.exams.Delete(p.Context, id); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) resolveCreateExamSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	examID, err := argID(p, "examId")
	if err != nil {
		return nil, err
	}
	subjectID, err := argID(p, "subjectId")
	if err != nil {
		return nil, err
	}
	numberOfQuestions, err := argID(p, "numberOfQuestions")
	if err != nil {
		return nil, err
	}
	return r.exams.AddSubject(p.Context, &model.CreateExamSubjectRequest{
		ExamID:            examID,
		SubjectID:         subjectID,
		NumberOfQuestions: int(numberOfQuestions),
		TimeLimitSeconds:  optInt(p, "timeLimitSeconds"),
		ScoringScheme:     optString(p, "scoringScheme"),
	})
}

func (r *Resolver) resolveUpdateExamSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.exams.UpdateSubjectPairing(p.Context, id, &model.ExamSubjectPatch{
		NumberOfQuestions: optInt(p, "numberOfQuestions"),
		TimeLimitSeconds:  optInt(p, "timeLimitSeconds"),
		ScoringScheme:     optString(p, "scoringScheme"),
	})
}

func (r *Resolver) resolveDeleteExamSubject(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.exams.RemoveSubjectPairing(p.Context, id); err != nil {
		return nil, err
	}
	return true, nil
}

// Questions

func (r *Resolver) resolveQuestion(p gql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	return r.questions.Get(p.Context, id)
}

func (r *Resolver) resolveQuestionsByExamSubject(p gql.ResolveParams) (any, error) {
	examSubjectID, err := argID(p, "examSubjectId")
	if err != nil {
		return nil, err
	}
	page, limit := pageArgs(p)
	questions, _, err := r.questions.List(p.Context, model.QuestionFilter{ExamSubjectID: &examSubjectID}, page, limit)
	return questions, err
}

func (r *Resolver) resolveQuestionsByTopic(p gql.ResolveParams) (any, error) {
	topicID, err := argID(p, "topicId")
	if err != nil {
		return nil, err
	}
	page, limit := pageArgs(p)
	questions, _, err := r.questions.List(p.Context, model.QuestionFilter{TopicID: &topicID}, page, limit)
	return questions, err
}

func (r *Resolver) resolveCreateQuestion(p gql.ResolveParams) (any, error) {
	identity, err := requireContentManager(p)
	if err != nil {
		return nil, err
	}
	examSubjectID, err := argID(p, "examSubjectId")
	if err != nil {
		return nil, err
	}
	questionText, err := argString(p, "questionText")
	if err != nil {
		return nil, err
	}
	questionType, err := argString(p, "questionType")
	if err != nil {
		return nil, err
	}
	correctAnswer, err := argString(p, "correctAnswer")
	if err != nil {
		return nil, err
	}

	return r.questions.Create(p.Context, identity, &model.CreateQuestionRequest{
		ExamSubjectID:   examSubjectID,
		TopicID:         optID(p, "topicId"),
		QuestionText:    questionText,
		QuestionType:    questionType,
		CorrectAnswer:   correctAnswer,
		Explanation:     optString(p, "explanation"),
		DifficultyLevel: optString(p, "difficultyLevel"),
		Options:         optionInputs(p.Args["options"]),
	})
}

func (r *Resolver) resolveUpdateQuestion(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	patch := &model.QuestionPatch{
		TopicID:         optID(p, "topicId"),
		QuestionText:    optString(p, "questionText"),
		QuestionType:    optString(p, "questionType"),
		CorrectAnswer:   optString(p, "correctAnswer"),
		Explanation:     optString(p, "explanation"),
		DifficultyLevel: optString(p, "difficultyLevel"),
	}
	if raw, ok := p.Args["options"]; ok {
		patch.Options = optionInputs(raw)
	}
	return r.questions.Update(p.Context, id, patch)
}

func (r *Resolver) resolveDeleteQuestion(p gql.ResolveParams) (any, error) {
	if _, err := requireContentManager(p); err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if err := r.questions.Delete(p.Context, id); err != nil {
		return nil, err
	}
	return true, nil
}
