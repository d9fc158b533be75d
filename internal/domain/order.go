package domain

import "time"

type OrderStatus string

const (
	// OrderStatusPaidDemo marks every recorded order; no payment is ever taken.
	OrderStatusPaidDemo OrderStatus = "paid-demo"
)

const CurrencyQAR = "QAR"

type Customer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	ZIP      string `json:"zip"`
}

// Order is immutable once recorded. It never carries card details.
type Order struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Customer  Customer    `json:"customer"`
	Items     []CartLine  `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Total     float64     `json:"total"`
	Currency  string      `json:"currency"`
	Status    OrderStatus `json:"status"`
}
