package models

// Ingredient is a user-owned ingredient attached to recipes.
type Ingredient struct {
	ID     int64
	UserID int64
	Name   string
}

func (i *Ingredient) String() string {
	return i.Name
}
