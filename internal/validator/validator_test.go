package validator

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindJSON(t *testing.T, payload any, dst any) map[string]string {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func registerPayload(institution string) gin.H {
	return gin.H{
		"email":       "student@example.com",
		"password":    "password123",
		"role":        "student",
		"full_name":   "Sam Student",
		"institution": institution,
	}
}

// The institution column is VARCHAR(150); anything longer has to be caught
// at binding time, not by the database.
func TestRegisterInstitutionLength(t *testing.T) {
	var req model.RegisterRequest
	if fields := bindJSON(t, registerPayload(strings.Repeat("x", 150)), &req); fields != nil {
		t.Errorf("150-char institution rejected: %v", fields)
	}

	req = model.RegisterRequest{}
	fields := bindJSON(t, registerPayload(strings.Repeat("x", 151)), &req)
	if fields == nil {
		t.Fatal("151-char institution accepted")
	}
	if fields["institution"] == "" {
		t.Errorf("fields = %v, want institution detail", fields)
	}
}

func TestBindTranslatesFieldErrors(t *testing.T) {
	var req model.RegisterRequest
	fields := bindJSON(t, gin.H{
		"email":     "not-an-email",
		"password":  "short",
		"role":      "student",
		"full_name": "Sam Student",
	}, &req)
	if fields == nil {
		t.Fatal("invalid payload accepted")
	}
	if fields["email"] == "" || fields["password"] == "" {
		t.Errorf("fields = %v, want email and password details", fields)
	}
}

func TestBindReportsMalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.RegisterRequest
	fields := Bind(c, &req)
	if fields == nil || fields["detail"] == "" {
		t.Errorf("fields = %v, want a detail entry", fields)
	}
}
