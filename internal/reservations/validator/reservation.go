package validator

import (
	"github.com/go-playground/validator/v10"

	apperrors "mensa/pkg/errors"
	"mensa/pkg/logger"
)

type reserveParams struct {
	PackageID string `validate:"required,mongodb"`
	StudentID string `validate:"required,mongodb"`
}

type noShowParams struct {
	PackageID  string `validate:"required,mongodb"`
	EmployeeID string `validate:"required,mongodb"`
}

type idParam struct {
	ID string `validate:"required,mongodb"`
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ReservationValidator) ValidateReserve(packageID, studentID string) error {
	if err := v.validate.Struct(&reserveParams{PackageID: packageID, StudentID: studentID}); err != nil {
		v.logger.Warn("Reservation input validation failed",
			"package_id", packageID,
			"student_id", studentID,
			"error", err,
		)
		return apperrors.InvalidInput("package_id and student_id must be valid object ids")
	}
	return nil
}

func (v *ReservationValidator) ValidateNoShow(packageID, employeeID string) error {
	if err := v.validate.Struct(&noShowParams{PackageID: packageID, EmployeeID: employeeID}); err != nil {
		v.logger.Warn("No-show input validation failed",
			"package_id", packageID,
			"employee_id", employeeID,
			"error", err,
		)
		return apperrors.InvalidInput("package_id and employee_id must be valid object ids")
	}
	return nil
}

func (v *ReservationValidator) ValidateID(id string) error {
	if err := v.validate.Struct(&idParam{ID: id}); err != nil {
		return apperrors.InvalidInput("id must be a valid object id")
	}
	return nil
}
