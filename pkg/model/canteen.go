package model

type Canteen struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Location        string `json:"location" bson:"location" validate:"required"`
	City            City   `json:"city" bson:"city" validate:"required,oneof=breda den_bosch tilburg"`
	ServesWarmMeals bool   `json:"serves_warm_meals" bson:"serves_warm_meals"`
}

// CanteenEmployee reports no-shows at the canteen counter. Only existence is
// checked by the reservation service; canteen membership authorization lives
// with the catalog.
type CanteenEmployee struct {
	ID             string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	EmployeeNumber string `json:"employee_number" bson:"employee_number" validate:"required"`
	CanteenID      string `json:"canteen_id" bson:"canteen_id" validate:"required,mongodb"`
}

func (e *CanteenEmployee) WorksAtCanteen(canteenID string) bool {
	return e.CanteenID == canteenID
}
