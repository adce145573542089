package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Product represents a catalog product.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Price       float64   `json:"price" gorm:"not null;index" validate:"gt=0"`
	Description string    `json:"description" gorm:"type:varchar(1000);not null;default:''" validate:"max=1000"`
	Category    string    `json:"category" gorm:"type:varchar(50);not null;index" validate:"required,min=2,max=50"`
	Image       *string   `json:"image" gorm:"type:text" validate:"omitempty,imageurl"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index:idx_products_created_at,sort:desc"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FormattedPrice renders the price as a dollar amount, e.g. "$12.50".
func (p Product) FormattedPrice() string {
	return fmt.Sprintf("$%.2f", p.Price)
}

// MarshalJSON adds the derived formattedPrice field to the product payload.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		FormattedPrice string `json:"formattedPrice"`
	}{
		product:        product(p),
		FormattedPrice: p.FormattedPrice(),
	})
}

// ProductInput is a product submission as received from a client, before
// any coercion. Description is nil when the field was not sent at all.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,min=3,max=100,productname"`
	Price       string  `json:"price" validate:"required,decimal,price"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    string  `json:"category" validate:"required,min=2,max=50,category"`
}

// UploadedFile is an image attached to a submission. It lives only for the
// duration of a single create call.
type UploadedFile struct {
	Data     []byte
	MimeType string
	Size     int64
}
