package model

// Listing is the summary of one car advertisement as returned by the
// paginated listings endpoint.
type Listing struct {
	ID           string   `json:"guid_anuncio"`
	Brand        string   `json:"marca"`
	Model        string   `json:"modelo"`
	Price        *float64 `json:"precio"`
	Mileage      *float64 `json:"kilometros"`
	Year         *int     `json:"año"`
	Dealer       string   `json:"concesionario"`
	TourURL      *string  `json:"tours_url"`
	ThumbnailURL *string  `json:"thumbnail_url"`
}

// ListingDetail is the full record of one advertisement.
type ListingDetail struct {
	ID            string   `json:"guid_anuncio"`
	Brand         string   `json:"marca"`
	Model         string   `json:"modelo"`
	Price         *float64 `json:"precio"`
	FinancedPrice *float64 `json:"precio_financiado_display"`
	Mileage       *float64 `json:"kilometros"`
	Year          *int     `json:"año"`
	Doors         *int     `json:"puertas"`
	Dealer        string   `json:"concesionario"`
	EngineType    string   `json:"tipo_de_motor"`
	Transmission  string   `json:"cambio"`
	Locality      string   `json:"localidad"`
	Province      string   `json:"provincia"`
	ListingType   string   `json:"tipo_de_anuncio"`
	VehicleClass  string   `json:"clase_de_vehículo"`
	Fuel          string   `json:"combustible"`
	BodyType      string   `json:"carrocería"`
	Warranty      string   `json:"garantia"`
	Description   string   `json:"descripción"`
	AdURL         string   `json:"url_anuncio"`
	TourURL       *string  `json:"tours_url"`
	Images        []Image  `json:"images"`
}

// Image is one entry of a listing's carousel.
type Image struct {
	URL string `json:"api_image_url"`
}

// ListingsPage is one page of the listings collection.
type ListingsPage struct {
	Listings []Listing `json:"listings"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total_listings"`
}
