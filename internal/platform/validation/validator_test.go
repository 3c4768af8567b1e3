package validation

import (
	"strings"
	"testing"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(sampleRequest{Email: "ana@clinic.test", Password: "longenough"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	v := New()
	err := v.Validate(sampleRequest{Email: "not-an-email", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid kind, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "email") || !strings.Contains(msg, "password") {
		t.Errorf("expected both fields in message, got %q", msg)
	}
}
