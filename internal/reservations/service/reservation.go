package service

import (
	"context"
	"errors"
	"time"

	reserrors "mensa/internal/reservations/errors"
	"mensa/internal/reservations/repository"
	"mensa/internal/reservations/validator"
	"mensa/pkg/config"
	mongotx "mensa/pkg/db/mongo"
	apperrors "mensa/pkg/errors"
	"mensa/pkg/lock"
	"mensa/pkg/model"
)

type ReservationService interface {
	Reserve(ctx context.Context, packageID, studentID string) (*model.Package, error)
	Cancel(ctx context.Context, packageID, studentID string) error
	GetReservations(ctx context.Context, studentID string) ([]*model.Package, error)
	RegisterNoShow(ctx context.Context, packageID, employeeID string) error
	IsEligible(ctx context.Context, studentID, packageID string) bool
	IsAvailable(ctx context.Context, packageID string) bool
}

type reservationService struct {
	cfg          *config.Config
	packageRepo  repository.PackageRepository
	studentRepo  repository.StudentRepository
	employeeRepo repository.EmployeeRepository
	validator    *validator.ReservationValidator
	txManager    mongotx.TransactionManager
	events       EventPublisher

	// locks serializes all mutations of a package's reserved_by field. Both
	// Reserve and RegisterNoShow go through it, so an employee processing a
	// no-show cannot race a student reserving the freshly cleared slot.
	locks *lock.KeyedLock[string]
}

func NewReservationService(
	packageRepo repository.PackageRepository,
	studentRepo repository.StudentRepository,
	employeeRepo repository.EmployeeRepository,
	reservationValidator *validator.ReservationValidator,
	txManager mongotx.TransactionManager,
	events EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		cfg:          cfg,
		packageRepo:  packageRepo,
		studentRepo:  studentRepo,
		employeeRepo: employeeRepo,
		validator:    reservationValidator,
		txManager:    txManager,
		events:       events,
		locks:        lock.New[string](),
	}
}

// Reserve assigns the package to the student, first-come-first-served. All
// state is re-read inside the per-package lock: whatever this goroutine saw
// before acquiring it may have been changed by the previous holder.
func (s *reservationService) Reserve(ctx context.Context, packageID, studentID string) (*model.Package, error) {
	if err := s.validator.ValidateReserve(packageID, studentID); err != nil {
		return nil, err
	}

	pkg, err := lock.WithLock(s.locks, packageID, func() (*model.Package, error) {
		pkg, err := s.fetchPackage(ctx, packageID)
		if err != nil {
			return nil, err
		}

		student, err := s.fetchStudent(ctx, studentID)
		if err != nil {
			return nil, err
		}

		if ruleErr := evaluateReservationRules(pkg, student); ruleErr != nil {
			return nil, ruleErr
		}

		pkg.ReservedBy = studentID
		updated, err := s.packageRepo.Update(ctx, pkg)
		if err != nil {
			return nil, apperrors.Internal("Failed to persist reservation", err)
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Package reserved",
		"package_id", packageID,
		"student_id", studentID,
		"pickup_time", pkg.PickupTime,
	)
	s.publishEvent(ctx, EventReservationConfirmed, packageID, reservationEvent{
		PackageID: packageID,
		StudentID: studentID,
	})

	return pkg, nil
}

// Cancel clears the student's own reservation. It deliberately runs without
// the package lock: only the owner can legally clear a reservation and the
// ownership check makes a double cancel a no-op.
func (s *reservationService) Cancel(ctx context.Context, packageID, studentID string) error {
	if err := s.validator.ValidateReserve(packageID, studentID); err != nil {
		return err
	}

	pkg, err := s.fetchPackage(ctx, packageID)
	if err != nil {
		return err
	}

	if pkg.ReservedBy != studentID {
		return apperrors.Forbidden("You can only cancel your own reservation").
			WithDetails(map[string]any{
				"package_id": packageID,
				"student_id": studentID,
			})
	}

	pkg.ReservedBy = ""
	if _, err := s.packageRepo.Update(ctx, pkg); err != nil {
		return apperrors.Internal("Failed to cancel reservation", err)
	}

	s.cfg.Log.Info("Reservation cancelled",
		"package_id", packageID,
		"student_id", studentID,
	)
	s.publishEvent(ctx, EventReservationCancelled, packageID, reservationEvent{
		PackageID: packageID,
		StudentID: studentID,
	})

	return nil
}

// GetReservations returns the student's reserved packages via the reserved_by
// index.
func (s *reservationService) GetReservations(ctx context.Context, studentID string) ([]*model.Package, error) {
	if err := s.validator.ValidateID(studentID); err != nil {
		return nil, err
	}

	packages, err := s.packageRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		s.cfg.Log.Error("Failed to load student reservations", "student_id", studentID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	return packages, nil
}

// IsEligible is the advisory check used for UI hints. It runs the same rule
// function as Reserve but outside the lock, so its answer can be stale by the
// time the student acts on it. Never correctness-bearing.
func (s *reservationService) IsEligible(ctx context.Context, studentID, packageID string) bool {
	if err := s.validator.ValidateReserve(packageID, studentID); err != nil {
		return false
	}

	pkg, err := s.fetchPackage(ctx, packageID)
	if err != nil {
		s.cfg.Log.Info("Eligibility check on unavailable package", "package_id", packageID)
		return false
	}

	student, err := s.fetchStudent(ctx, studentID)
	if err != nil {
		s.cfg.Log.Info("Eligibility check for unknown student", "student_id", studentID)
		return false
	}

	return evaluateReservationRules(pkg, student) == nil
}

// IsAvailable reports whether the package exists, is unreserved, and its
// pickup moment has not passed. Advisory only.
func (s *reservationService) IsAvailable(ctx context.Context, packageID string) bool {
	if err := s.validator.ValidateID(packageID); err != nil {
		return false
	}

	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		return false
	}

	return !pkg.IsReserved() && pkg.PickupTime.After(time.Now())
}

func (s *reservationService) fetchPackage(ctx context.Context, packageID string) (*model.Package, error) {
	pkg, err := s.packageRepo.FindByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) || errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Package", packageID)
		}
		return nil, apperrors.Internal("Failed to load package", err)
	}
	return pkg, nil
}

// fetchStudent loads the student together with their current reservations, so
// the one-per-day rule can be evaluated as a pure function over loaded data.
func (s *reservationService) fetchStudent(ctx context.Context, studentID string) (*model.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) || errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Student", studentID)
		}
		return nil, apperrors.Internal("Failed to load student", err)
	}

	reservations, err := s.packageRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load student reservations", err)
	}
	student.Reservations = reservations

	return student, nil
}
