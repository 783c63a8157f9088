package domain

import "strings"

type Place struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	OwnerID     string   `json:"owner_id"`
}

type Owner struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name, skipping blanks.
func (o Owner) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(o.FirstName) + " " + strings.TrimSpace(o.LastName))
}

type Amenity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
