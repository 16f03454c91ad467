package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	err := New(CodeConflict, "already reserved", http.StatusConflict)
	if got := err.Error(); got != "CONFLICT: already reserved" {
		t.Errorf("unexpected error string: %q", got)
	}

	wrapped := Wrap(fmt.Errorf("write failed"), CodeInternal, "persist failed", http.StatusInternalServerError)
	if got := wrapped.Error(); got != "INTERNAL_ERROR: persist failed (caused by: write failed)" {
		t.Errorf("unexpected wrapped error string: %q", got)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal("something broke", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Package", "665f0a1b2c3d4e5f6a7b8c9d")
	if err.Code != CodeNotFound || err.HTTPStatus != http.StatusNotFound {
		t.Errorf("unexpected code/status: %s/%d", err.Code, err.HTTPStatus)
	}
	if err.Details["resource"] != "Package" || err.Details["id"] != "665f0a1b2c3d4e5f6a7b8c9d" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestBusinessRule(t *testing.T) {
	err := BusinessRule("one_per_day", "only one package per day", map[string]any{
		"pickup_date": "2026-09-01",
	})
	if err.Code != CodeBusinessRule {
		t.Errorf("expected code %s, got %s", CodeBusinessRule, err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", err.HTTPStatus)
	}
	if err.Details["rule"] != "one_per_day" {
		t.Errorf("expected rule detail, got %v", err.Details)
	}
	if err.Details["pickup_date"] != "2026-09-01" {
		t.Errorf("expected caller details to be kept, got %v", err.Details)
	}

	// nil details still carry the rule
	bare := BusinessRule("student_blocked", "blocked", nil)
	if bare.Details["rule"] != "student_blocked" {
		t.Errorf("expected rule detail with nil details, got %v", bare.Details)
	}
}

func TestResourceBusy(t *testing.T) {
	err := ResourceBusy("Package", "665f0a1b2c3d4e5f6a7b8c9d")
	if err.Code != CodeResourceBusy {
		t.Errorf("expected code %s, got %s", CodeResourceBusy, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status 409, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "Package" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestIsCode(t *testing.T) {
	err := Conflict("already reserved")
	if !IsCode(err, CodeConflict) {
		t.Error("expected IsCode to match the error's code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("expected IsCode to reject a different code")
	}
	if IsCode(fmt.Errorf("plain"), CodeConflict) {
		t.Error("expected IsCode to reject a non-AppError")
	}
	if IsCode(nil, CodeConflict) {
		t.Error("expected IsCode to reject nil")
	}
}

func TestAsAppError(t *testing.T) {
	app := Forbidden("nope")
	if got := AsAppError(app); got != app {
		t.Error("expected an AppError to pass through unchanged")
	}

	wrapped := AsAppError(fmt.Errorf("boom"))
	if wrapped.Code != CodeInternal {
		t.Errorf("expected plain errors to become INTERNAL_ERROR, got %s", wrapped.Code)
	}
}

func TestToJSON(t *testing.T) {
	err := Validation("invalid input", map[string]any{"field": "student_id"})

	var resp ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &resp); jsonErr != nil {
		t.Fatalf("failed to unmarshal error JSON: %v", jsonErr)
	}
	if resp.Code != CodeValidation || resp.Message != "invalid input" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Details["field"] != "student_id" {
		t.Errorf("unexpected details: %v", resp.Details)
	}
}
