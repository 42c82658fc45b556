package models

type VendorProfile struct {
	ID            string     `json:"id" yaml:"id"`
	Role          string     `json:"role" yaml:"role"`
	Name          string     `json:"name" yaml:"name"`
	CompanyName   string     `json:"company_name,omitempty" yaml:"company_name"`
	Rating        float64    `json:"rating" yaml:"rating"`
	ReviewCount   int        `json:"review_count" yaml:"review_count"`
	Location      string     `json:"location" yaml:"location"`
	PriceRange    string     `json:"price_range" yaml:"price_range"`
	StartingPrice float64    `json:"starting_price" yaml:"starting_price"`
	Description   string     `json:"description" yaml:"description"`
	Images        []string   `json:"images" yaml:"images"`
	Tags          []string   `json:"tags" yaml:"tags"`
	Amenities     []string   `json:"amenities,omitempty" yaml:"amenities"`
	Verified      bool       `json:"verified" yaml:"verified"`
	Capacity      int        `json:"capacity,omitempty" yaml:"capacity"`
	BlockedDates  []string   `json:"blocked_dates" yaml:"blocked_dates"` // YYYY-MM-DD, whole-day
	Packages      []Package  `json:"packages" yaml:"packages"`
	MenuItems     []MenuItem `json:"menu_items,omitempty" yaml:"menu_items"`
	ProductsUsed  []string   `json:"products_used,omitempty" yaml:"products_used"`
	VenueType     string     `json:"venue_type,omitempty" yaml:"venue_type"`
	Rooms         int        `json:"rooms,omitempty" yaml:"rooms"`
	Parking       bool       `json:"parking,omitempty" yaml:"parking"`
}

// DateBlocked reports membership in the vendor's blocked-date set.
func (v *VendorProfile) DateBlocked(date string) bool {
	for _, d := range v.BlockedDates {
		if d == date {
			return true
		}
	}
	return false
}

type Package struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	Unit        string   `json:"unit,omitempty" yaml:"unit"` // per plate, per hour, per event
}

type MenuItem struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Type  string  `json:"type" yaml:"type"` // veg, non-veg, beverage
	Price float64 `json:"price" yaml:"price"`
}
