package service

import (
	"fmt"

	apperrors "mensa/pkg/errors"
	"mensa/pkg/model"
)

// Rule names reported in error details.
const (
	RuleAlreadyReserved = "already_reserved"
	RuleStudentBlocked  = "student_blocked"
	RuleAgeRestricted   = "age_restricted"
	RuleOnePerDay       = "one_per_day"
)

const pickupDateLayout = "2006-01-02"

// evaluateReservationRules is the single source of truth for reservation
// eligibility. It is pure: no I/O, no clock reads, everything comes from the
// loaded entities. The advisory IsEligible path and the authoritative locked
// Reserve path both run exactly this function, so the UI hint can never be
// more permissive than the gate.
//
// Rules run in a fixed order; the first failing rule is the one reported.
// Returns nil when the student may reserve the package.
func evaluateReservationRules(pkg *model.Package, student *model.Student) *apperrors.AppError {
	if pkg.IsReserved() {
		return apperrors.Conflict("This package has already been reserved by another student").
			WithDetails(map[string]any{
				"rule":       RuleAlreadyReserved,
				"package_id": pkg.ID,
				"student_id": student.ID,
			})
	}

	if student.IsBlocked() {
		return apperrors.Forbidden(fmt.Sprintf("Student is blocked after %d no-shows", student.NoShowCount)).
			WithDetails(map[string]any{
				"rule":          RuleStudentBlocked,
				"student_id":    student.ID,
				"no_show_count": student.NoShowCount,
			})
	}

	// Age is measured on the pickup date, not today. A student who turns 18
	// before pickup may reserve a restricted package now.
	if pkg.ContainsAlcohol() && !student.IsAdultOnDate(pkg.PickupTime) {
		ageOnPickup := student.AgeOnDate(pkg.PickupTime)
		return apperrors.Forbidden(fmt.Sprintf(
			"This package contains alcohol; you will be %d on the pickup date %s",
			ageOnPickup, pkg.PickupTime.Format(pickupDateLayout),
		)).WithDetails(map[string]any{
			"rule":          RuleAgeRestricted,
			"student_id":    student.ID,
			"package_id":    pkg.ID,
			"age_on_pickup": ageOnPickup,
			"pickup_date":   pkg.PickupTime.Format(pickupDateLayout),
		})
	}

	if student.HasReservationOnDate(pkg.PickupTime) {
		return apperrors.BusinessRule(RuleOnePerDay,
			fmt.Sprintf("You already have a reservation for %s; only one package per pickup day is allowed",
				pkg.PickupTime.Format(pickupDateLayout)),
			map[string]any{
				"student_id":  student.ID,
				"package_id":  pkg.ID,
				"pickup_date": pkg.PickupTime.Format(pickupDateLayout),
			})
	}

	return nil
}
