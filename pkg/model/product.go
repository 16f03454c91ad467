package model

type Product struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	ContainsAlcohol bool   `json:"contains_alcohol" bson:"contains_alcohol"`
	PhotoURL        string `json:"photo_url,omitempty" bson:"photo_url,omitempty" validate:"omitempty,url"`
}
