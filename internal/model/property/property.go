package property

// Coordinates holds a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Property is a single listing as returned by the listing adapter.
type Property struct {
	PropertyID   string      `json:"property_id"`
	Address      string      `json:"address"`
	Price        float64     `json:"price"`
	PropertyType string      `json:"property_type"`
	Bedrooms     int         `json:"bedrooms"`
	Bathrooms    float64     `json:"bathrooms"`
	SquareFeet   int         `json:"square_feet"`
	LotSize      float64     `json:"lot_size"`
	YearBuilt    int         `json:"year_built"`
	ListingDate  string      `json:"listing_date"`
	MLSNumber    string      `json:"mls_number"`
	Images       []string    `json:"images,omitempty"`
	Description  string      `json:"description,omitempty"`
	Coordinates  Coordinates `json:"coordinates"`
	ZillowURL    string      `json:"zillow_url,omitempty"`
}

// Details carries the full detail-page payload for one listing, including the
// externally sourced valuation and rent figures consumed as opaque inputs.
type Details struct {
	ZPID          string      `json:"zpid"`
	Address       string      `json:"address"`
	Price         float64     `json:"price"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     float64     `json:"bathrooms"`
	LivingArea    int         `json:"living_area"`
	LotSize       float64     `json:"lot_size"`
	YearBuilt     int         `json:"year_built"`
	PropertyType  string      `json:"property_type"`
	Description   string      `json:"description,omitempty"`
	Images        []string    `json:"images,omitempty"`
	Zestimate     float64     `json:"zestimate"`
	RentZestimate float64     `json:"rent_zestimate"`
	Neighborhood  string      `json:"neighborhood,omitempty"`
	WalkScore     int         `json:"walk_score"`
	DaysOnMarket  int         `json:"days_on_market"`
	Status        string      `json:"status,omitempty"`
	Coordinates   Coordinates `json:"coordinates"`
}
