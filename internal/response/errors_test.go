package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doError(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, body
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrCode
	}{
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, ErrValidation},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound, ErrNotFound},
		{"authorization", apperr.Authorization("nope"), http.StatusForbidden, ErrForbidden},
		{"conflict", apperr.Conflict("session already ended"), http.StatusConflict, ErrConflict},
		{"storage", apperr.Storagef("get session", fmt.Errorf("boom")), http.StatusInternalServerError, ErrInternal},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError, ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doError(t, tc.err)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if body.Error == nil || body.Error.Code != tc.wantCode {
				t.Errorf("error body = %+v, want code %s", body.Error, tc.wantCode)
			}
		})
	}
}

func TestErrorUsesServiceMessage(t *testing.T) {
	_, body := doError(t, apperr.Conflict("session already ended"))
	if body.Error.Message != "session already ended" {
		t.Errorf("message = %q, want service-supplied message", body.Error.Message)
	}
}

func TestErrorNeverLeaksStorageDetail(t *testing.T) {
	_, body := doError(t, apperr.Storagef("get session", fmt.Errorf("pq: secret hostname")))
	if body.Error.Message != GetMessage(ErrInternal) {
		t.Errorf("message = %q, want generic internal error", body.Error.Message)
	}
}

func TestErrorCarriesFieldDetails(t *testing.T) {
	err := apperr.ValidationFields("validation failed", map[string]string{"email": "must be a valid email"})
	w, body := doError(t, err)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body.Error.Fields["email"] == "" {
		t.Errorf("fields = %v, want email detail", body.Error.Fields)
	}
}

func TestMetadataAlwaysPresent(t *testing.T) {
	_, body := doError(t, apperr.NotFound("missing"))
	if body.Metadata.RequestID == "" {
		t.Error("request id missing")
	}
	if body.Metadata.Timestamp == "" {
		t.Error("timestamp missing")
	}
}
