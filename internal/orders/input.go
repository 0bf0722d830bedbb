package orders

// CreateInput is an order submission after key normalization.
type CreateInput struct {
	DrinkType     string `json:"drink_type" validate:"required,oneof=ice hot"`
	Menu          string `json:"menu" validate:"required"`
	Milk          string `json:"milk"`
	Sugar         string `json:"sugar"`
	TableNumber   int    `json:"table_number" validate:"required,min=1,max=300"`
	PaymentMethod string `json:"payment_method"`
	ReceiptStatus string `json:"receipt_status" validate:"omitempty,oneof=unreceived received"`
	CashAmount    *int   `json:"cash_amount" validate:"omitempty,min=0"`
	Note          string `json:"note"`
}

// StatusInput is the body of a status update.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled canceled"`
}
