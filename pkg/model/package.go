package model

import "time"

type MealType string

const (
	MealTypeBread       MealType = "bread"
	MealTypeWarmEvening MealType = "warm_evening_meal"
	MealTypeDrink       MealType = "drink"
)

type City string

const (
	CityBreda    City = "breda"
	CityDenBosch City = "den_bosch"
	CityTilburg  City = "tilburg"
)

// MaxPickupDaysAhead bounds the planning horizon for packages: pickup must fall
// within today..today+2 days. Enforced at creation, assumed valid afterwards.
const MaxPickupDaysAhead = 2

// Package is a reservable meal slot. A reservation is not a separate entity:
// it is the relation ReservedBy == Student.ID.
type Package struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	City             City      `json:"city" bson:"city" validate:"required,oneof=breda den_bosch tilburg"`
	CanteenLocation  string    `json:"canteen_location" bson:"canteen_location" validate:"required"`
	PickupTime       time.Time `json:"pickup_time" bson:"pickup_time" validate:"required"`
	LatestPickupTime time.Time `json:"latest_pickup_time" bson:"latest_pickup_time" validate:"required,gtefield=PickupTime"`
	Price            float64   `json:"price" bson:"price" validate:"gte=0"`
	MealType         MealType  `json:"meal_type" bson:"meal_type" validate:"required,oneof=bread warm_evening_meal drink"`
	Products         []Product `json:"products" bson:"products"`
	ReservedBy       string    `json:"reserved_by,omitempty" bson:"reserved_by,omitempty"`
}

func (p *Package) IsReserved() bool {
	return p.ReservedBy != ""
}

// CanBeModified reports whether the catalog may still edit this package.
// A reserved package is immutable except through cancellation or no-show.
func (p *Package) CanBeModified() bool {
	return !p.IsReserved()
}

// ContainsAlcohol is derived from the loaded product set on every call.
// It is deliberately not a stored field: a cached flag drifts when products change.
func (p *Package) ContainsAlcohol() bool {
	for _, product := range p.Products {
		if product.ContainsAlcohol {
			return true
		}
	}
	return false
}

// IsValidPickupTime checks the planning horizon: pickup must be in the future
// and no later than MaxPickupDaysAhead days from today.
func (p *Package) IsValidPickupTime(now time.Time) bool {
	horizon := now.AddDate(0, 0, MaxPickupDaysAhead)
	return p.PickupTime.After(now) && !dateOf(p.PickupTime).After(dateOf(horizon))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
