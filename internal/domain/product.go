package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Valid product genders
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderKid    = "kid"
	GenderUnisex = "unisex"
)

// Product represents a product aggregate in the catalog. It owns its image
// collection: images are created and destroyed together with the product.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Price       float64    `json:"price" db:"price"`
	Description string     `json:"description" db:"description"`
	Slug        string     `json:"slug" db:"slug"`
	Stock       int        `json:"stock" db:"stock"`
	Sizes       []string   `json:"sizes" db:"sizes"`
	Gender      string     `json:"gender" db:"gender"`
	Tags        []string   `json:"tags" db:"tags"`
	Images      []Image    `json:"images,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Image represents a single product image. An image belongs to exactly one
// product and never outlives it.
type Image struct {
	ID        uuid.UUID `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Position  int       `json:"position" db:"position"`
}

// ImageURLs returns the image URLs in display order. This is the external
// representation of the image collection; internal image IDs are never
// exposed.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// NormalizeSlug converts a raw slug (or title used as a slug fallback) into
// its stored form: lowercase, spaces replaced with underscores, apostrophes
// removed. It is applied on every insert and every update that touches
// slug-bearing fields, so the invariant holds at every write.
func NormalizeSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

// ValidGender reports whether g is one of the allowed gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderMen, GenderWomen, GenderKid, GenderUnisex:
		return true
	}
	return false
}
