package service

import (
	"testing"
	"time"

	apperrors "mensa/pkg/errors"
	"mensa/pkg/model"
)

func beerPackage(id string, pickup time.Time) *model.Package {
	pkg := availablePackage(id, pickup)
	pkg.MealType = model.MealTypeDrink
	pkg.Products = []model.Product{
		{Name: "Craft beer", ContainsAlcohol: true},
		{Name: "Nuts"},
	}
	return pkg
}

func ruleOf(t *testing.T, err *apperrors.AppError) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected a rule violation, got nil")
	}
	rule, ok := err.Details["rule"].(string)
	if !ok {
		t.Fatalf("expected rule detail on error, got %v", err.Details)
	}
	return rule
}

func TestEvaluateReservationRules_Allowed(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if err := evaluateReservationRules(availablePackage(testPackageID, pickup), adultStudent(testStudentID)); err != nil {
		t.Errorf("expected eligible, got %v", err)
	}
}

func TestEvaluateReservationRules_AlreadyReserved(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	pkg := availablePackage(testPackageID, pickup)
	pkg.ReservedBy = testStudentID2

	err := evaluateReservationRules(pkg, adultStudent(testStudentID))
	if err == nil || err.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if rule := ruleOf(t, err); rule != RuleAlreadyReserved {
		t.Errorf("expected rule %q, got %q", RuleAlreadyReserved, rule)
	}
}

func TestEvaluateReservationRules_BlockedStudent(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	student := adultStudent(testStudentID)
	student.NoShowCount = model.NoShowBlockThreshold

	err := evaluateReservationRules(availablePackage(testPackageID, pickup), student)
	if err == nil || err.Code != apperrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if rule := ruleOf(t, err); rule != RuleStudentBlocked {
		t.Errorf("expected rule %q, got %q", RuleStudentBlocked, rule)
	}
}

func TestEvaluateReservationRules_AgeOnPickupDate(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		dateOfBirth time.Time
		wantRule    string
	}{
		{
			name:        "seventeen on pickup date",
			dateOfBirth: time.Date(2008, 10, 15, 0, 0, 0, 0, time.UTC),
			wantRule:    RuleAgeRestricted,
		},
		{
			name:        "turns eighteen the day before pickup",
			dateOfBirth: time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "turns eighteen on the pickup date",
			dateOfBirth: time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "turns eighteen the day after pickup",
			dateOfBirth: time.Date(2008, 9, 2, 0, 0, 0, 0, time.UTC),
			wantRule:    RuleAgeRestricted,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			student := adultStudent(testStudentID)
			student.DateOfBirth = tc.dateOfBirth

			err := evaluateReservationRules(beerPackage(testPackageID, pickup), student)
			if tc.wantRule == "" {
				if err != nil {
					t.Fatalf("expected eligible, got %v", err)
				}
				return
			}

			if err == nil || err.Code != apperrors.CodeForbidden {
				t.Fatalf("expected FORBIDDEN, got %v", err)
			}
			if rule := ruleOf(t, err); rule != tc.wantRule {
				t.Errorf("expected rule %q, got %q", tc.wantRule, rule)
			}
			if age, ok := err.Details["age_on_pickup"].(int); !ok || age != 17 {
				t.Errorf("expected age_on_pickup 17, got %v", err.Details["age_on_pickup"])
			}
			if err.Details["pickup_date"] != "2026-09-01" {
				t.Errorf("expected pickup_date 2026-09-01, got %v", err.Details["pickup_date"])
			}
		})
	}
}

func TestEvaluateReservationRules_AgeRuleIgnoredWithoutAlcohol(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	minor := adultStudent(testStudentID)
	minor.DateOfBirth = time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := evaluateReservationRules(availablePackage(testPackageID, pickup), minor); err != nil {
		t.Errorf("expected minor to reserve an alcohol-free package, got %v", err)
	}
}

func TestEvaluateReservationRules_OnePerDay(t *testing.T) {
	student := adultStudent(testStudentID)
	student.Reservations = []*model.Package{
		availablePackage(testPackageID2, time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)),
	}

	// Same calendar date, different time of day.
	err := evaluateReservationRules(
		availablePackage(testPackageID, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)),
		student,
	)
	if err == nil || err.Code != apperrors.CodeBusinessRule {
		t.Fatalf("expected BUSINESS_RULE, got %v", err)
	}
	if rule := ruleOf(t, err); rule != RuleOnePerDay {
		t.Errorf("expected rule %q, got %q", RuleOnePerDay, rule)
	}

	// Next day is fine.
	if err := evaluateReservationRules(
		availablePackage(testPackageID3, time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)),
		student,
	); err != nil {
		t.Errorf("expected different pickup day to be eligible, got %v", err)
	}
}

// A reserved package held by a blocked student must surface the conflict, not
// the block: the slot is gone no matter who asks.
func TestEvaluateReservationRules_Order(t *testing.T) {
	pickup := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	pkg := beerPackage(testPackageID, pickup)
	pkg.ReservedBy = testStudentID2

	student := adultStudent(testStudentID)
	student.NoShowCount = model.NoShowBlockThreshold
	student.DateOfBirth = time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC)
	student.Reservations = []*model.Package{
		availablePackage(testPackageID3, pickup),
	}

	err := evaluateReservationRules(pkg, student)
	if rule := ruleOf(t, err); rule != RuleAlreadyReserved {
		t.Fatalf("expected %q to win over later rules, got %q", RuleAlreadyReserved, rule)
	}

	// With the slot free, the block is the next rule in line.
	pkg.ReservedBy = ""
	err = evaluateReservationRules(pkg, student)
	if rule := ruleOf(t, err); rule != RuleStudentBlocked {
		t.Fatalf("expected %q after conflict clears, got %q", RuleStudentBlocked, rule)
	}

	// Unblocked, the age restriction fires before one-per-day.
	student.NoShowCount = 0
	err = evaluateReservationRules(pkg, student)
	if rule := ruleOf(t, err); rule != RuleAgeRestricted {
		t.Fatalf("expected %q after block clears, got %q", RuleAgeRestricted, rule)
	}
}
