package model

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Stock         int       `json:"stock"`
	Images        []string  `json:"images"`
	Featured      bool      `json:"featured"`
	CreatedAt     Timestamp `json:"createdAt"`
	Description   string    `json:"description"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// FirstImage returns the first image URI or "" when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

type Review struct {
	ID        string    `json:"id,omitempty"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Score is the review's rating, 0 when the record has none.
func (r Review) Score() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

type Notification struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt Timestamp `json:"createdAt"`
}

// PlaceholderImage is used for banners whose product has no image.
const PlaceholderImage = "https://via.placeholder.com/800x400.png?text=GearZone"

type Banner struct {
	ProductID string `json:"productId"`
	Image     string `json:"image"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
}
