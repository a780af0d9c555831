package models

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID     int64
	UserID int64
	Name   string
}

func (t *Tag) String() string {
	return t.Name
}
