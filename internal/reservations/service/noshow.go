package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "mensa/pkg/errors"
	"mensa/pkg/lock"
	"mensa/pkg/model"
)

// RegisterNoShow records that a reserved package was not collected. The
// package mutation goes through the same per-package lock as Reserve, so a
// no-show cannot race a student reserving the freshly cleared slot. The wait
// is bounded: an employee at the counter should get a retryable "busy" answer
// instead of queueing behind a stuck reservation.
func (s *reservationService) RegisterNoShow(ctx context.Context, packageID, employeeID string) error {
	if err := s.validator.ValidateNoShow(packageID, employeeID); err != nil {
		return err
	}

	err := s.locks.TryDo(packageID, s.cfg.NoShowLockTimeout, func() error {
		return s.registerNoShowLocked(ctx, packageID, employeeID)
	})
	if errors.Is(err, lock.ErrBusy) {
		return apperrors.ResourceBusy("Package", packageID)
	}
	return err
}

func (s *reservationService) registerNoShowLocked(ctx context.Context, packageID, employeeID string) error {
	pkg, err := s.fetchPackage(ctx, packageID)
	if err != nil {
		return err
	}

	if !pkg.IsReserved() {
		return apperrors.Conflict("Package has no reservation to register a no-show for").
			WithDetails(map[string]any{
				"package_id": packageID,
			})
	}

	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return apperrors.Unauthorized("Employee not found")
	}

	studentID := pkg.ReservedBy
	student, err := s.fetchStudentOnly(ctx, studentID)
	if err != nil {
		return err
	}

	wasBlocked := student.IsBlocked()
	student.NoShowCount++
	pkg.ReservedBy = ""

	// Counter increment and package release stand or fall together.
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.studentRepo.Update(sessCtx, student); err != nil {
			return apperrors.Internal("Failed to update student no-show count", err)
		}
		if _, err := s.packageRepo.Update(sessCtx, pkg); err != nil {
			return apperrors.Internal("Failed to release package", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Warn("No-show registered",
		"package_id", packageID,
		"student_id", studentID,
		"employee_id", employeeID,
		"no_show_count", student.NoShowCount,
	)
	s.publishEvent(ctx, EventNoShowRegistered, packageID, noShowEvent{
		PackageID:   packageID,
		StudentID:   studentID,
		EmployeeID:  employeeID,
		NoShowCount: student.NoShowCount,
	})

	// Cascade only on the transition into the blocked state. A student who was
	// already blocked gets the increment but not another full cascade scan.
	if !wasBlocked && student.IsBlocked() {
		s.cfg.Log.Warn("Student is now blocked due to excessive no-shows",
			"student_id", studentID,
			"no_show_count", student.NoShowCount,
		)
		cancelled := s.cascadeCancelFutureReservations(ctx, student)
		s.publishEvent(ctx, EventStudentBlocked, studentID, studentBlockedEvent{
			StudentID:         studentID,
			NoShowCount:       student.NoShowCount,
			CancelledPackages: cancelled,
		})
	}

	return nil
}

// cascadeCancelFutureReservations releases every future package still held by
// the blocked student. Best-effort by design: each failure is logged and
// skipped so one bad document cannot abort the rest of the cascade, and no
// error ever escapes to fail the no-show registration that already succeeded.
// Past pickups are left untouched.
func (s *reservationService) cascadeCancelFutureReservations(ctx context.Context, student *model.Student) int {
	packages, err := s.packageRepo.FindByStudentID(ctx, student.ID)
	if err != nil {
		s.cfg.Log.Warn("Failed to load reservations for blocked student cascade",
			"student_id", student.ID,
			"error", err,
		)
		return 0
	}

	now := time.Now()
	cancelled := 0
	for _, p := range packages {
		if !p.PickupTime.After(now) || p.ReservedBy != student.ID {
			continue
		}

		if err := s.cancelForCascade(ctx, p.ID, student.ID); err != nil {
			s.cfg.Log.Warn("Failed to cancel future reservation during cascade",
				"package_id", p.ID,
				"student_id", student.ID,
				"error", err,
			)
			continue
		}

		cancelled++
		s.cfg.Log.Info("Cancelled future reservation for blocked student",
			"package_id", p.ID,
			"student_id", student.ID,
		)
	}

	if cancelled > 0 {
		s.cfg.Log.Warn("Cascade cancellation completed",
			"student_id", student.ID,
			"cancelled_packages", cancelled,
		)
	}
	return cancelled
}

// cancelForCascade clears one package under its own lock, re-checking
// ownership after acquisition in case a concurrent mutation got there first.
func (s *reservationService) cancelForCascade(ctx context.Context, packageID, studentID string) error {
	return s.locks.Do(packageID, func() error {
		pkg, err := s.packageRepo.FindByID(ctx, packageID)
		if err != nil {
			return err
		}
		if pkg.ReservedBy != studentID {
			return nil
		}
		pkg.ReservedBy = ""
		_, err = s.packageRepo.Update(ctx, pkg)
		return err
	})
}

func (s *reservationService) fetchStudentOnly(ctx context.Context, studentID string) (*model.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Student", studentID)
	}
	return student, nil
}
