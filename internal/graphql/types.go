package graphql

import (
	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/prepforge/cbt-backend/internal/model"
)

// jsonScalar passes arbitrary JSON values through untyped. Used for the
// session settings map.
var jsonScalar = gql.NewScalar(gql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON value",
	Serialize:   func(value any) any { return value },
	ParseValue:  func(value any) any { return value },
	ParseLiteral: func(valueAST ast.Value) any {
		return parseLiteral(valueAST)
	},
})

func parseLiteral(valueAST ast.Value) any {
	switch v := valueAST.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.IntValue:
		return v.Value
	case *ast.FloatValue:
		return v.Value
	case *ast.ObjectValue:
		obj := make(map[string]any, len(v.Fields))
		for _, field := range v.Fields {
			obj[field.Name.Value] = parseLiteral(field.Value)
		}
		return obj
	case *ast.ListValue:
		list := make([]any, 0, len(v.Values))
		for _, item := range v.Values {
			list = append(list, parseLiteral(item))
		}
		return list
	default:
		return nil
	}
}

var userType = gql.NewObject(gql.ObjectConfig{
	Name: "User",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.Int},
		"role":         &gql.Field{Type: gql.String},
		"email":        &gql.Field{Type: gql.String},
		"fullName":     &gql.Field{Type: gql.String},
		"institution":  &gql.Field{Type: gql.String},
		"studyLevel":   &gql.Field{Type: gql.String},
		"isActive":     &gql.Field{Type: gql.Boolean},
		"registeredAt": &gql.Field{Type: gql.DateTime},
		"lastLogin":    &gql.Field{Type: gql.DateTime},
	},
})

var authPayloadType = gql.NewObject(gql.ObjectConfig{
	Name: "AuthPayload",
	Fields: gql.Fields{
		"accessToken":  &gql.Field{Type: gql.String},
		"refreshToken": &gql.Field{Type: gql.String},
		"user":         &gql.Field{Type: userType},
	},
})

var subjectType = gql.NewObject(gql.ObjectConfig{
	Name: "Subject",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.Int},
		"name":        &gql.Field{Type: gql.String},
		"code":        &gql.Field{Type: gql.String},
		"description": &gql.Field{Type: gql.String},
		"createdAt":   &gql.Field{Type: gql.DateTime},
	},
})

var topicType = gql.NewObject(gql.ObjectConfig{
	Name: "Topic",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.Int},
		"subjectId":   &gql.Field{Type: gql.Int},
		"name":        &gql.Field{Type: gql.String},
		"description": &gql.Field{Type: gql.String},
		"createdAt":   &gql.Field{Type: gql.DateTime},
	},
})

var examType = gql.NewObject(gql.ObjectConfig{
	Name: "Exam",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.Int},
		"name":         &gql.Field{Type: gql.String},
		"abbreviation": &gql.Field{Type: gql.String},
		"description":  &gql.Field{Type: gql.String},
		"isActive":     &gql.Field{Type: gql.Boolean},
		"createdAt":    &gql.Field{Type: gql.DateTime},
	},
})

var examSubjectType = gql.NewObject(gql.ObjectConfig{
	Name: "ExamSubject",
	Fields: gql.Fields{
		"id":                &gql.Field{Type: gql.Int},
		"examId":            &gql.Field{Type: gql.Int},
		"subjectId":         &gql.Field{Type: gql.Int},
		"numberOfQuestions": &gql.Field{Type: gql.Int},
		"timeLimitSeconds":  &gql.Field{Type: gql.Int},
		"scoringScheme":     &gql.Field{Type: gql.String},
		"createdAt":         &gql.Field{Type: gql.DateTime},
	},
})

var questionOptionType = gql.NewObject(gql.ObjectConfig{
	Name: "QuestionOption",
	Fields: gql.Fields{
		"id":         &gql.Field{Type: gql.Int},
		"questionId": &gql.Field{Type: gql.Int},
		"optionLetter": &gql.Field{
			Type: gql.String,
			Resolve: func(p gql.ResolveParams) (any, error) {
				if opt, ok := p.Source.(model.QuestionOption); ok {
					return opt.Letter, nil
				}
				return nil, nil
			},
		},
		"optionText": &gql.Field{
			Type: gql.String,
			Resolve: func(p gql.ResolveParams) (any, error) {
				if opt, ok := p.Source.(model.QuestionOption); ok {
					return opt.Text, nil
				}
				return nil, nil
			},
		},
	},
})

var questionType = gql.NewObject(gql.ObjectConfig{
	Name: "Question",
	Fields: gql.Fields{
		"id":              &gql.Field{Type: gql.Int},
		"examSubjectId":   &gql.Field{Type: gql.Int},
		"topicId":         &gql.Field{Type: gql.Int},
		"questionText":    &gql.Field{Type: gql.String},
		"questionType":    &gql.Field{Type: gql.String},
		"correctAnswer":   &gql.Field{Type: gql.String},
		"explanation":     &gql.Field{Type: gql.String},
		"difficultyLevel": &gql.Field{Type: gql.String},
		"createdAt":       &gql.Field{Type: gql.DateTime},
		"options":         &gql.Field{Type: gql.NewList(questionOptionType)},
	},
})

var sessionType = gql.NewObject(gql.ObjectConfig{
	Name: "StudentSession",
	Fields: gql.Fields{
		"id":                   &gql.Field{Type: gql.Int},
		"userId":               &gql.Field{Type: gql.Int},
		"examSubjectId":        &gql.Field{Type: gql.Int},
		"startTime":            &gql.Field{Type: gql.DateTime},
		"endTime":              &gql.Field{Type: gql.DateTime},
		"totalQuestions":       &gql.Field{Type: gql.Int},
		"timeAllocatedSeconds": &gql.Field{Type: gql.Int},
		"sessionType":          &gql.Field{Type: gql.String},
		"settings":             &gql.Field{Type: jsonScalar},
	},
})

var answerType = gql.NewObject(gql.ObjectConfig{
	Name: "StudentAnswer",
	Fields: gql.Fields{
		"id":               &gql.Field{Type: gql.Int},
		"sessionId":        &gql.Field{Type: gql.Int},
		"questionId":       &gql.Field{Type: gql.Int},
		"submittedAnswer":  &gql.Field{Type: gql.String},
		"isCorrect":        &gql.Field{Type: gql.Boolean},
		"timeTakenSeconds": &gql.Field{Type: gql.Int},
		"submittedAt":      &gql.Field{Type: gql.DateTime},
	},
})

var sessionResultType = gql.NewObject(gql.ObjectConfig{
	Name: "SessionResult",
	Fields: gql.Fields{
		"sessionId":             &gql.Field{Type: gql.Int},
		"userId":                &gql.Field{Type: gql.Int},
		"examSubjectId":         &gql.Field{Type: gql.Int},
		"startTime":             &gql.Field{Type: gql.DateTime},
		"endTime":               &gql.Field{Type: gql.DateTime},
		"totalQuestions":        &gql.Field{Type: gql.Int},
		"totalAnswered":         &gql.Field{Type: gql.Int},
		"correctAnswers":        &gql.Field{Type: gql.Int},
		"incorrectAnswers":      &gql.Field{Type: gql.Int},
		"scorePercentage":       &gql.Field{Type: gql.Float},
		"totalTimeTakenSeconds": &gql.Field{Type: gql.Int},
		"answers":               &gql.Field{Type: gql.NewList(answerType)},
	},
})

var optionInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "OptionInput",
	Fields: gql.InputObjectConfigFieldMap{
		"optionLetter": &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"optionText":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
	},
})
