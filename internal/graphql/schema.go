package graphql

import (
	gql "github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema over a Resolver. The query and
// mutation surface mirrors the REST API one to one.
func NewSchema(r *Resolver) (gql.Schema, error) {
	idArg := gql.FieldConfigArgument{
		"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
	}
	pagingArgs := func(extra gql.FieldConfigArgument) gql.FieldConfigArgument {
		args := gql.FieldConfigArgument{
			"page":  &gql.ArgumentConfig{Type: gql.Int},
			"limit": &gql.ArgumentConfig{Type: gql.Int},
		}
		for name, arg := range extra {
			args[name] = arg
		}
		return args
	}

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"me":    &gql.Field{Type: userType, Resolve: r.resolveMe},
			"user":  &gql.Field{Type: userType, Args: idArg, Resolve: r.resolveUser},
			"users": &gql.Field{Type: gql.NewList(userType), Args: pagingArgs(nil), Resolve: r.resolveUsers},

			"subject":  &gql.Field{Type: subjectType, Args: idArg, Resolve: r.resolveSubject},
			"subjects": &gql.Field{Type: gql.NewList(subjectType), Args: pagingArgs(nil), Resolve: r.resolveSubjects},
			"topic":    &gql.Field{Type: topicType, Args: idArg, Resolve: r.resolveTopic},
			"topicsBySubject": &gql.Field{
				Type: gql.NewList(topicType),
				Args: gql.FieldConfigArgument{
					"subjectId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.resolveTopicsBySubject,
			},

			"exam": &gql.Field{Type: examType, Args: idArg, Resolve: r.resolveExam},
			"exams": &gql.Field{
				Type: gql.NewList(examType),
				Args: pagingArgs(gql.FieldConfigArgument{
					"isActive": &gql.ArgumentConfig{Type: gql.Boolean},
				}),
				Resolve: r.resolveExams,
			},
			"examSubject": &gql.Field{Type: examSubjectType, Args: idArg, Resolve: r.resolveExamSubject},
			"examSubjectsByExam": &gql.Field{
				Type: gql.NewList(examSubjectType),
				Args: gql.FieldConfigArgument{
					"examId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.resolveExamSubjectsByExam,
			},
			"examSubjectsBySubject": &gql.Field{
				Type: gql.NewList(examSubjectType),
				Args: gql.FieldConfigArgument{
					"subjectId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.resolveExamSubjectsBySubject,
			},

			"question": &gql.Field{Type: questionType, Args: idArg, Resolve: r.resolveQuestion},
			"questionsByExamSubject": &gql.Field{
				Type: gql.NewList(questionType),
				Args: pagingArgs(gql.FieldConfigArgument{
					"examSubjectId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				}),
				Resolve: r.resolveQuestionsByExamSubject,
			},
			"questionsByTopic": &gql.Field{
				Type: gql.NewList(questionType),
				Args: pagingArgs(gql.FieldConfigArgument{
					"topicId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				}),
				Resolve: r.resolveQuestionsByTopic,
			},

			"studentSession": &gql.Field{Type: sessionType, Args: idArg, Resolve: r.resolveStudentSession},
			"studentSessionsByUser": &gql.Field{
				Type: gql.NewList(sessionType),
				Args: pagingArgs(gql.FieldConfigArgument{
					"userId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				}),
				Resolve: r.resolveStudentSessionsByUser,
			},
			"studentSessionsByExamSubject": &gql.Field{
				Type: gql.NewList(sessionType),
				Args: pagingArgs(gql.FieldConfigArgument{
					"examSubjectId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				}),
				Resolve: r.resolveStudentSessionsByExamSubject,
			},
			"studentSessionResults": &gql.Field{
				Type: sessionResultType,
				Args: gql.FieldConfigArgument{
					"sessionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.resolveStudentSessionResults,
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"login": &gql.Field{
				Type: authPayloadType,
				Args: gql.FieldConfigArgument{
					"email":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"password": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.resolveLogin,
			},
			"register": &gql.Field{
				Type: userType,
				Args: gql.FieldConfigArgument{
					"email":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"password":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"fullName":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"role":        &gql.ArgumentConfig{Type: gql.String},
					"institution": &gql.ArgumentConfig{Type: gql.String},
					"studyLevel":  &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveRegister,
			},
			"refreshToken": &gql.Field{
				Type: authPayloadType,
				Args: gql.FieldConfigArgument{
					"refreshToken": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.resolveRefreshToken,
			},
			"requestPasswordReset": &gql.Field{
				Type: gql.Boolean,
				Args: gql.FieldConfigArgument{
					"email": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.resolveRequestPasswordReset,
			},
			"resetPassword": &gql.Field{
				Type: gql.Boolean,
				Args: gql.FieldConfigArgument{
					"token":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"newPassword": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.resolveResetPassword,
			},
			"updateUserProfile": &gql.Field{
				Type: userType,
				Args: gql.FieldConfigArgument{
					"userId":      &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"email":       &gql.ArgumentConfig{Type: gql.String},
					"password":    &gql.ArgumentConfig{Type: gql.String},
					"fullName":    &gql.ArgumentConfig{Type: gql.String},
					"institution": &gql.ArgumentConfig{Type: gql.String},
					"studyLevel":  &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveUpdateUserProfile,
			},
			"updateUserStatus": &gql.Field{
				Type: userType,
				Args: gql.FieldConfigArgument{
					"userId":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"isActive": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Boolean)},
				},
				Resolve: r.resolveUpdateUserStatus,
			},

			"createSubject": &gql.Field{
				Type: subjectType,
				Args: gql.FieldConfigArgument{
					"name":        &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"code":        &gql.ArgumentConfig{Type: gql.String},
					"description": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveCreateSubject,
			},
			"updateSubject": &gql.Field{
				Type: subjectType,
				Args: gql.FieldConfigArgument{
					"id":          &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"name":        &gql.ArgumentConfig{Type: gql.String},
					"code":        &gql.ArgumentConfig{Type: gql.String},
					"description": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveUpdateSubject,
			},
			"deleteSubject": &gql.Field{Type: gql.Boolean, Args: idArg, Resolve: r.resolveDeleteSubject},
			"createTopic": &gql.Field{
				Type: topicType,
				Args: gql.FieldConfigArgument{
					"subjectId":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"name":        &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"description": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveCreateTopic,
			},
			"updateTopic": &gql.Field{
				Type: topicType,
				Args: gql.FieldConfigArgument{
					"id":          &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"name":        &gql.ArgumentConfig{Type: gql.String},
					"description": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveUpdateTopic,
			},
			"deleteTopic": &gql.Field{Type: gql.Boolean, Args: idArg, Resolve: r.resolveDeleteTopic},

			"createExam": &gql.Field{
				Type: examType,
				Args: gql.FieldConfigArgument{
					"name":         &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"abbreviation": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"description":  &gql.ArgumentConfig{Type: gql.String},
					"isActive":     &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: r.resolveCreateExam,
			},
			"updateExam": &gql.Field{
				Type: examType,
				Args: gql.FieldConfigArgument{
					"id":           &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"name":         &gql.ArgumentConfig{Type: gql.String},
					"abbreviation": &gql.ArgumentConfig{Type: gql.String},
					"description":  &gql.ArgumentConfig{Type: gql.String},
					"isActive":     &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: r.resolveUpdateExam,
			},
			"deleteExam": &gql.Field{Type: gql.Boolean, Args: idArg, Resolve: r.resolveDeleteExam},
			"createExamSubject": &gql.Field{
				Type: examSubjectType,
				Args: gql.FieldConfigArgument{
					"examId":            &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"subjectId":         &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"numberOfQuestions": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"timeLimitSeconds":  &gql.ArgumentConfig{Type: gql.Int},
					"scoringScheme":     &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveCreateExamSubject,
			},
			"updateExamSubject": &gql.Field{
				Type: examSubjectType,
				Args: gql.FieldConfigArgument{
					"id":                &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"numberOfQuestions": &gql.ArgumentConfig{Type: gql.Int},
					"timeLimitSeconds":  &gql.ArgumentConfig{Type: gql.Int},
					"scoringScheme":     &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.resolveUpdateExamSubject,
			},
			"deleteExamSubject": &gql.Field{Type: gql.Boolean, Args: idArg, Resolve: r.resolveDeleteExamSubject},

			"createQuestion": &gql.Field{
				Type: questionType,
				Args: gql.FieldConfigArgument{
					"examSubjectId":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"topicId":         &gql.ArgumentConfig{Type: gql.Int},
					"questionText":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"questionType":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"correctAnswer":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"explanation":     &gql.ArgumentConfig{Type: gql.String},
					"difficultyLevel": &gql.ArgumentConfig{Type: gql.String},
					"options":         &gql.ArgumentConfig{Type: gql.NewList(optionInputType)},
				},
				Resolve: r.resolveCreateQuestion,
			},
			"updateQuestion": &gql.Field{
				Type: questionType,
				Args: gql.FieldConfigArgument{
					"id":              &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"topicId":         &gql.ArgumentConfig{Type: gql.Int},
					"questionText":    &gql.ArgumentConfig{Type: gql.String},
					"questionType":    &gql.ArgumentConfig{Type: gql.String},
					"correctAnswer":   &gql.ArgumentConfig{Type: gql.String},
					"explanation":     &gql.ArgumentConfig{Type: gql.String},
					"difficultyLevel": &gql.ArgumentConfig{Type: gql.String},
					"options":         &gql.ArgumentConfig{Type: gql.NewList(optionInputType)},
				},
				Resolve: r.resolveUpdateQuestion,
			},
			"deleteQuestion": &gql.Field{Type: gql.Boolean, Args: idArg, Resolve: r.resolveDeleteQuestion},

			"startStudentSession": &gql.Field{
				Type: sessionType,
				Args: gql.FieldConfigArgument{
					"examSubjectId":        &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"totalQuestions":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"timeAllocatedSeconds": &gql.ArgumentConfig{Type: gql.Int},
					"sessionType":          &gql.ArgumentConfig{Type: gql.String},
					"settings":             &gql.ArgumentConfig{Type: jsonScalar},
				},
				Resolve: r.resolveStartStudentSession,
			},
			"endStudentSession": &gql.Field{
				Type: sessionType,
				Args: gql.FieldConfigArgument{
					"sessionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: r.resolveEndStudentSession,
			},
			"updateStudentSessionSettings": &gql.Field{
				Type: sessionType,
				Args: gql.FieldConfigArgument{
					"sessionId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"settings":  &gql.ArgumentConfig{Type: gql.NewNonNull(jsonScalar)},
				},
				Resolve: r.resolveUpdateStudentSessionSettings,
			},
			"submitStudentAnswer": &gql.Field{
				Type: answerType,
				Args: gql.FieldConfigArgument{
					"sessionId":        &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"questionId":       &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"submittedAnswer":  &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"timeTakenSeconds": &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: r.resolveSubmitStudentAnswer,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query, Mutation: mutation})
}
