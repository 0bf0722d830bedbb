package models

import "time"

type Shift string

const (
	ShiftEarly Shift = "early"
	ShiftLate  Shift = "late"
)

// CupMovement is one stock-in/stock-out line of the cup ledger. A carried-over
// entry restarts the running balance and may have no date.
type CupMovement struct {
	ID          int64     `json:"id"`
	Date        *Day      `json:"date"`
	CarriedOver bool      `json:"carried_over"`
	Category    DrinkType `json:"category"`
	InStock     int       `json:"in_stock"`
	OutStock    int       `json:"out_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// CupBalance is a ledger line with its derived running balance.
type CupBalance struct {
	CupMovement
	Remaining int `json:"remaining"`
}

// CupClosing is the once-per-day record of cups consumed.
type CupClosing struct {
	Date         Day       `json:"date"`
	IceUsed      int       `json:"ice_used"`
	HotUsed      int       `json:"hot_used"`
	RemainingIce *int      `json:"remaining_ice"`
	RemainingHot *int      `json:"remaining_hot"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRemaining reports whether the closing recorded a remaining balance.
func (c CupClosing) HasRemaining() bool {
	return c.RemainingIce != nil && c.RemainingHot != nil
}

// CupPlan is the stock planned for a day.
type CupPlan struct {
	Date       Day       `json:"date"`
	PlannedIce int       `json:"planned_ice"`
	PlannedHot int       `json:"planned_hot"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type StartCup struct {
	Date      Day       `json:"date"`
	Shift     Shift     `json:"shift"`
	DrinkType DrinkType `json:"drink_type"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SalesReport is the staff adjustment submitted for a shift.
type SalesReport struct {
	ID            int64     `json:"id"`
	Date          Day       `json:"date"`
	Shift         Shift     `json:"shift"`
	Diff          int       `json:"diff"`
	Staff         *string   `json:"staff"`
	Note          *string   `json:"note"`
	AdjustedSales int       `json:"adjusted_sales"`
	Summary       []byte    `json:"-"` // JSON snapshot of the shift summary
	UpdatedAt     time.Time `json:"updated_at"`
}
