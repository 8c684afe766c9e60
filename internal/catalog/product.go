package catalog

import (
	"encoding/json"
	"strings"
	"time"
)

// Category is the resolved form of the loosely-typed category field. API
// payloads carry either a plain string (legacy inline name) or an object with
// id and name; both decode into the same struct so the rest of the pipeline
// never re-checks the shape.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryDocument struct {
	ID   string `json:"id"`
	OID  string `json:"_id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both string and object encodings, resolving the
// union once at ingestion time.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.ID = ""
		c.Name = strings.TrimSpace(name)
		return nil
	}

	var doc categoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.ID = doc.ID
	if c.ID == "" {
		c.ID = doc.OID
	}
	c.Name = strings.TrimSpace(doc.Name)
	return nil
}

// Display returns the category name for listing rows, defaulting when the
// product carries no usable category.
func (c Category) Display() string {
	if c.Name == "" {
		return "Uncategorized"
	}
	return c.Name
}

// Product is the read-only row shape consumed by the admin product list.
// Optional fields degrade to display defaults instead of failing.
type Product struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"shortDescription"`
	Category         Category  `json:"category"`
	Tags             []string  `json:"tags"`
	Price            float64   `json:"price"`
	ComparePrice     *float64  `json:"comparePrice"`
	Stock            int       `json:"stock"`
	IsActive         bool      `json:"isActive"`
	IsFeatured       bool      `json:"isFeatured"`
	IsDigital        bool      `json:"isDigital"`
	Images           []string  `json:"images"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisplaySKU returns the SKU for listing rows, defaulting when missing.
func (p Product) DisplaySKU() string {
	if strings.TrimSpace(p.SKU) == "" {
		return "N/A"
	}
	return p.SKU
}

// PrimaryImage returns the first image URL, or empty when the product has
// none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
