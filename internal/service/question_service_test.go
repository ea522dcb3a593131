package service

import (
	"testing"

	"github.com/prepforge/cbt-backend/internal/apperr"
	"github.com/prepforge/cbt-backend/internal/model"
)

func TestValidateOptions(t *testing.T) {
	mc := func(letters ...string) []model.OptionInput {
		opts := make([]model.OptionInput, len(letters))
		for i, l := range letters {
			opts[i] = model.OptionInput{Letter: l, Text: "option " + l}
		}
		return opts
	}

	cases := []struct {
		name          string
		questionType  model.QuestionType
		correctAnswer string
		options       []model.OptionInput
		wantErr       bool
	}{
		{"valid multiple choice", model.QuestionTypeMultipleChoice, "B", mc("A", "B", "C", "D"), false},
		{"answer not among letters", model.QuestionTypeMultipleChoice, "E", mc("A", "B", "C", "D"), true},
		{"case mismatch on letter", model.QuestionTypeMultipleChoice, "b", mc("A", "B"), true},
		{"duplicate letters", model.QuestionTypeMultipleChoice, "A", mc("A", "A"), true},
		{"single option", model.QuestionTypeMultipleChoice, "A", mc("A"), true},
		{"no options", model.QuestionTypeMultipleChoice, "A", nil, true},
		{"true/false without options", model.QuestionTypeTrueFalse, "true", nil, false},
		{"true/false with options", model.QuestionTypeTrueFalse, "true", mc("A", "B"), true},
		{"short answer without options", model.QuestionTypeShortAnswer, "Paris", nil, false},
		{"short answer with options", model.QuestionTypeShortAnswer, "Paris", mc("A", "B"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateOptions(tc.questionType, tc.correctAnswer, tc.options)
			if tc.wantErr && !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("got %v, want validation error", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestQuestionTypeValid(t *testing.T) {
	for _, qt := range []model.QuestionType{
		model.QuestionTypeMultipleChoice,
		model.QuestionTypeTrueFalse,
		model.QuestionTypeShortAnswer,
	} {
		if !qt.Valid() {
			t.Errorf("%q should be valid", qt)
		}
	}
	if model.QuestionType("essay").Valid() {
		t.Error("unknown type accepted")
	}
}
