package domain

import "time"

// Sale is an immutable ledger entry. Deleting the referenced product
// does not touch its sales; they stay as historical facts.
//
// UnitPrice and UnitCost are only populated when the ledger runs in
// price-at-sale mode; rows recorded before that mode was enabled keep
// nil and reports fall back to the current catalog price.
type Sale struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
	UnitPrice *float64  `json:"unit_price,omitempty"`
	UnitCost  *float64  `json:"unit_cost,omitempty"`
}
