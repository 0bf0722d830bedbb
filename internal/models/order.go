package models

import "time"

type DrinkType string

const (
	DrinkIce DrinkType = "ice"
	DrinkHot DrinkType = "hot"
)

// DrinkTypes lists categories in display order.
var DrinkTypes = []DrinkType{DrinkIce, DrinkHot}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type ReceiptStatus string

const (
	ReceiptUnreceived ReceiptStatus = "unreceived"
	ReceiptReceived   ReceiptStatus = "received"
)

type Order struct {
	ID            int64         `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	DrinkType     DrinkType     `json:"drink_type"`
	Menu          string        `json:"menu"`
	Price         int           `json:"price"`
	Milk          string        `json:"milk"`
	Sugar         string        `json:"sugar"`
	TableNumber   int           `json:"table_number"`
	PaymentMethod string        `json:"payment_method"` // raw, normalized by sales
	ReceiptStatus ReceiptStatus `json:"receipt_status"`
	CashAmount    *int          `json:"cash_amount,omitempty"`
	Note          string        `json:"note"`
	Status        OrderStatus   `json:"status"`
}

// MenuItem is an entry of the drink menu.
type MenuItem struct {
	Name      string    `json:"name"`
	DrinkType DrinkType `json:"drink_type"`
	Price     int       `json:"price"`
}
