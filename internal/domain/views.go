package domain

import "html/template"

// Card is one rendered entry of the listing.
type Card struct {
	ID     string
	Title  string
	Price  float64
	Image  string
	Href   string
	Hidden bool
}

// PriceOption is one choice of the listing's max-price filter.
// A zero Max means "All".
type PriceOption struct {
	Label string
	Max   float64
}

func (o PriceOption) All() bool { return o.Max <= 0 }

// Value is what the filter form submits for this option.
func (o PriceOption) Value() string {
	if o.All() {
		return ""
	}
	return o.Label
}

type ReviewView struct {
	Author string
	Text   string
	Rating int
}

type DetailView struct {
	Place           *Place
	HostName        string
	Amenities       string
	DescriptionHTML template.HTML
	Reviews         []ReviewView
	ShowReviewForm  bool
}
