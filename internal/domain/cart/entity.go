// internal/domain/cart/entity.go
package cart

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Item is a line in a cart. Price, Title and Thumbnail are snapshots captured
// when the line was added; Quantity is always >= 1 for a persisted line.
type Item struct {
	ID        string `json:"id"`
	VariantID uint   `json:"variant_id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// Subtotal returns the line total in minor currency units
func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ItemList stores cart lines as a single JSON column
type ItemList []Item

// Value implements driver.Valuer
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported cart items column type %T", value)
	}

	if len(data) == 0 {
		*l = ItemList{}
		return nil
	}

	return json.Unmarshal(data, l)
}

// Cart represents a shopping cart. Exactly one of UserID and SessionID is set:
// an authenticated cart carries the user ID, a guest cart carries the browser
// session ID. Total is always recomputed from the items on write, never
// adjusted incrementally.
type Cart struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionID *string   `gorm:"index;size:64" json:"session_id,omitempty"`
	Items     ItemList  `gorm:"type:jsonb" json:"items"`
	Total     int64     `gorm:"not null;default:0" json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Cart) TableName() string { return "carts" }

// Owner returns the cart's owner as a tagged value
func (c *Cart) Owner() Owner {
	if c.UserID != nil {
		return UserOwner(*c.UserID)
	}
	if c.SessionID != nil {
		return GuestOwner(*c.SessionID)
	}
	return Owner{}
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// ComputeTotal returns the sum of all line subtotals
func (c *Cart) ComputeTotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}
