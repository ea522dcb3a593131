package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"not found", NotFound("missing"), KindNotFound},
		{"authorization", Authorization("nope"), KindAuthorization},
		{"conflict", Conflict("already ended"), KindConflict},
		{"storage", Storage(errors.New("boom")), KindStorage},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", Conflict("session already ended"))
	if !IsKind(err, KindConflict) {
		t.Errorf("wrapped conflict not recognized: %v", err)
	}
	if IsKind(err, KindValidation) {
		t.Error("wrapped conflict misclassified as validation")
	}
}

func TestStorageUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storagef("get session", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if err.Error() != "get session: connection reset" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidationFields(t *testing.T) {
	err := ValidationFields("validation failed", map[string]string{"email": "must be a valid email"})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("not an *Error")
	}
	if e.Fields["email"] == "" {
		t.Error("field detail lost")
	}
}
