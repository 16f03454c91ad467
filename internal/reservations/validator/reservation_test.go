package validator

import (
	"testing"

	apperrors "mensa/pkg/errors"
	"mensa/pkg/logger"
)

const validID = "665f0a1b2c3d4e5f6a7b8c9d"

func newTestValidator() *ReservationValidator {
	return NewReservationValidator(logger.New(logger.Config{Level: logger.ERROR}))
}

func TestValidateReserve(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateReserve(validID, validID); err != nil {
		t.Errorf("expected valid ids to pass, got %v", err)
	}

	cases := []struct {
		name      string
		packageID string
		studentID string
	}{
		{"empty package id", "", validID},
		{"empty student id", validID, ""},
		{"malformed package id", "not-an-id", validID},
		{"short hex", "abc123", validID},
		{"non-hex characters", "zzzf0a1b2c3d4e5f6a7b8c9d", validID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateReserve(tc.packageID, tc.studentID)
			if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestValidateNoShow(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateNoShow(validID, validID); err != nil {
		t.Errorf("expected valid ids to pass, got %v", err)
	}
	if err := v.ValidateNoShow(validID, "nope"); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for malformed employee id, got %v", err)
	}
}

func TestValidateID(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateID(validID); err != nil {
		t.Errorf("expected valid id to pass, got %v", err)
	}
	if err := v.ValidateID(""); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty id, got %v", err)
	}
}
