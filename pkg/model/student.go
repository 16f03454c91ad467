package model

import "time"

const (
	// AdultAge is the minimum age for reserving a package that contains alcohol,
	// measured on the pickup date.
	AdultAge = 18

	// NoShowBlockThreshold is the no-show count at which a student is blocked
	// from making reservations.
	NoShowBlockThreshold = 2
)

type Student struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StudentNumber string    `json:"student_number" bson:"student_number" validate:"required"`
	Email         string    `json:"email" bson:"email" validate:"required,email"`
	PhoneNumber   string    `json:"phone_number,omitempty" bson:"phone_number,omitempty" validate:"omitempty,e164"`
	StudyCity     City      `json:"study_city" bson:"study_city" validate:"required,oneof=breda den_bosch tilburg"`
	DateOfBirth   time.Time `json:"date_of_birth" bson:"date_of_birth" validate:"required"`
	NoShowCount   int       `json:"no_show_count" bson:"no_show_count" validate:"gte=0"`

	// Reservations holds the packages currently reserved by this student. It is
	// loaded from the package store (reserved_by index) before rule evaluation
	// and never persisted on the student document.
	Reservations []*Package `json:"reservations,omitempty" bson:"-"`
}

// AgeOnDate returns the student's age in whole years as of the given date.
func (s *Student) AgeOnDate(date time.Time) int {
	age := date.Year() - s.DateOfBirth.Year()
	anniversary := time.Date(date.Year(), s.DateOfBirth.Month(), s.DateOfBirth.Day(), 0, 0, 0, 0, date.Location())
	if dateOf(date).Before(anniversary) {
		age--
	}
	return age
}

// IsAdultOnDate reports whether the student is an adult on the given date.
// Age is always measured on the pickup date, not the evaluation date: a student
// who turns 18 before pickup is an adult for that package.
func (s *Student) IsAdultOnDate(date time.Time) bool {
	return s.AgeOnDate(date) >= AdultAge
}

func (s *Student) IsBlocked() bool {
	return s.NoShowCount >= NoShowBlockThreshold
}

// HasReservationOnDate reports whether the student already holds a reservation
// with a pickup on the same calendar date. Time of day is ignored.
func (s *Student) HasReservationOnDate(date time.Time) bool {
	for _, r := range s.Reservations {
		if dateOf(r.PickupTime).Equal(dateOf(date)) {
			return true
		}
	}
	return false
}
