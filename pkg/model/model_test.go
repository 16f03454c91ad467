package model

import (
	"testing"
	"time"
)

func TestStudentAgeOnDate(t *testing.T) {
	student := &Student{DateOfBirth: time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC)}

	cases := []struct {
		name string
		date time.Time
		want int
	}{
		{"day before birthday", time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC), 17},
		{"on birthday", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 18},
		{"birthday with time of day", time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC), 18},
		{"day after birthday", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 18},
		{"year later", time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC), 19},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := student.AgeOnDate(tc.date); got != tc.want {
				t.Errorf("AgeOnDate(%s) = %d, want %d", tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestStudentIsAdultOnDate(t *testing.T) {
	student := &Student{DateOfBirth: time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC)}

	if student.IsAdultOnDate(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected not adult the day before the 18th birthday")
	}
	if !student.IsAdultOnDate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected adult on the 18th birthday")
	}
}

func TestStudentIsBlocked(t *testing.T) {
	cases := []struct {
		count int
		want  bool
	}{
		{0, false},
		{NoShowBlockThreshold - 1, false},
		{NoShowBlockThreshold, true},
		{NoShowBlockThreshold + 1, true},
	}

	for _, tc := range cases {
		student := &Student{NoShowCount: tc.count}
		if got := student.IsBlocked(); got != tc.want {
			t.Errorf("IsBlocked with count %d = %v, want %v", tc.count, got, tc.want)
		}
	}
}

func TestStudentHasReservationOnDate(t *testing.T) {
	student := &Student{
		Reservations: []*Package{
			{ID: "a", PickupTime: time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)},
		},
	}

	if !student.HasReservationOnDate(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected match on the same calendar date regardless of time of day")
	}
	if student.HasReservationOnDate(time.Date(2026, 9, 2, 18, 30, 0, 0, time.UTC)) {
		t.Error("expected no match on a different date")
	}

	empty := &Student{}
	if empty.HasReservationOnDate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected no match without reservations")
	}
}

func TestPackageContainsAlcohol(t *testing.T) {
	pkg := &Package{
		Products: []Product{
			{Name: "Sandwich"},
			{Name: "Juice"},
		},
	}
	if pkg.ContainsAlcohol() {
		t.Error("expected no alcohol")
	}

	pkg.Products = append(pkg.Products, Product{Name: "Beer", ContainsAlcohol: true})
	if !pkg.ContainsAlcohol() {
		t.Error("expected alcohol once an alcoholic product is present")
	}
}

func TestPackageIsReserved(t *testing.T) {
	pkg := &Package{}
	if pkg.IsReserved() {
		t.Error("expected empty reserved_by to mean available")
	}
	if !pkg.CanBeModified() {
		t.Error("expected unreserved package to be modifiable")
	}

	pkg.ReservedBy = "665f0a1b2c3d4e5f6a7b8c01"
	if !pkg.IsReserved() {
		t.Error("expected non-empty reserved_by to mean reserved")
	}
	if pkg.CanBeModified() {
		t.Error("expected reserved package to be immutable")
	}
}

func TestPackageIsValidPickupTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		pickup time.Time
		want   bool
	}{
		{"later today", time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC), true},
		{"tomorrow", time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC), true},
		{"last day of horizon", time.Date(2026, 9, 3, 23, 0, 0, 0, time.UTC), true},
		{"past the horizon", time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), false},
		{"already passed", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pkg := &Package{PickupTime: tc.pickup}
			if got := pkg.IsValidPickupTime(now); got != tc.want {
				t.Errorf("IsValidPickupTime(%s) = %v, want %v", tc.pickup.Format(time.RFC3339), got, tc.want)
			}
		})
	}
}

func TestEmployeeWorksAtCanteen(t *testing.T) {
	employee := &CanteenEmployee{CanteenID: "665f0a1b2c3d4e5f6a7b8c10"}

	if !employee.WorksAtCanteen("665f0a1b2c3d4e5f6a7b8c10") {
		t.Error("expected match for own canteen")
	}
	if employee.WorksAtCanteen("665f0a1b2c3d4e5f6a7b8c11") {
		t.Error("expected no match for another canteen")
	}
}
