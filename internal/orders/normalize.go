package orders

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/spf13/cast"
)

// fieldAliases maps each canonical order field to the key spellings seen in
// stored records and request bodies. The first alias is the canonical column.
var fieldAliases = map[string][]string{
	"id":             {"id"},
	"created_at":     {"created_at", "createdAt", "createdat"},
	"drink_type":     {"drink_type", "drinkType", "drinktype"},
	"menu":           {"menu"},
	"price":          {"price"},
	"milk":           {"milk"},
	"sugar":          {"sugar"},
	"table_number":   {"table_number", "tableNumber", "tablenumber", "table_no", "tableNo"},
	"payment_method": {"payment_method", "paymentMethod", "paymentmethod"},
	"receipt_status": {"receipt_status", "receiptStatus", "receiptstatus"},
	"cash_amount":    {"cash_amount", "cashAmount", "cashamount"},
	"note":           {"note"},
	"status":         {"status"},
}

var drinkTypeAliases = map[string]models.DrinkType{
	"ice":  models.DrinkIce,
	"hot":  models.DrinkHot,
	"アイス": models.DrinkIce,
	"ホット": models.DrinkHot,
}

// lookup returns the first non-nil value stored under any alias of field.
func lookup(raw map[string]any, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		if v, ok := raw[key]; ok && v != nil {
			if b, isBytes := v.([]byte); isBytes {
				return string(b), true
			}
			return v, true
		}
	}
	return nil, false
}

func lookupString(raw map[string]any, field string) string {
	v, ok := lookup(raw, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func lookupInt(raw map[string]any, field string) (int, error) {
	v, ok := lookup(raw, field)
	if !ok {
		return 0, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}

func lookupOptionalInt(raw map[string]any, field string) (*int, error) {
	v, ok := lookup(raw, field)
	if !ok {
		return nil, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := toInt(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &n, nil
}

// toInt accepts whole numbers only. Strings are read as decimal, so "08" is 8
// and "300.00" (a DECIMAL column) is 300, while 300.9 is rejected.
func toInt(v any) (int, error) {
	switch x := v.(type) {
	case float64:
		return wholeNumber(x)
	case float32:
		return wholeNumber(float64(x))
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}
		return wholeNumber(f)
	}
	return cast.ToIntE(v)
}

func wholeNumber(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	return int(f), nil
}

// IsColumnAlias reports whether name is a known column spelling of the
// canonical order field.
func IsColumnAlias(field, name string) bool {
	for _, alias := range fieldAliases[field] {
		if alias == name {
			return true
		}
	}
	return false
}

// ParseDrinkType accepts the canonical names and the labels printed on the menu board.
func ParseDrinkType(s string) (models.DrinkType, bool) {
	dt, ok := drinkTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return dt, ok
}

// ParseStatus accepts both spellings of cancelled.
func ParseStatus(s string) (models.OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return models.StatusPending, true
	case "completed":
		return models.StatusCompleted, true
	case "cancelled", "canceled":
		return models.StatusCancelled, true
	}
	return "", false
}

// NormalizeRecord maps a stored order row, whichever column convention the
// deployment uses, onto the canonical Order.
func NormalizeRecord(raw map[string]any) (models.Order, error) {
	var o models.Order

	id, err := lookupInt(raw, "id")
	if err != nil {
		return o, err
	}
	o.ID = int64(id)

	if v, ok := lookup(raw, "created_at"); ok {
		t, err := cast.ToTimeE(v)
		if err != nil {
			return o, fmt.Errorf("created_at: %w", err)
		}
		o.CreatedAt = t
	}

	o.Menu = lookupString(raw, "menu")
	o.Milk = lookupString(raw, "milk")
	o.Sugar = lookupString(raw, "sugar")
	o.PaymentMethod = lookupString(raw, "payment_method")
	o.Note = lookupString(raw, "note")

	if dt, ok := ParseDrinkType(lookupString(raw, "drink_type")); ok {
		o.DrinkType = dt
	} else {
		o.DrinkType = models.DrinkType(lookupString(raw, "drink_type"))
	}

	if o.Price, err = lookupInt(raw, "price"); err != nil {
		return o, err
	}
	if o.TableNumber, err = lookupInt(raw, "table_number"); err != nil {
		return o, err
	}
	if o.CashAmount, err = lookupOptionalInt(raw, "cash_amount"); err != nil {
		return o, err
	}

	o.ReceiptStatus = models.ReceiptStatus(lookupString(raw, "receipt_status"))
	if o.ReceiptStatus == "" {
		o.ReceiptStatus = models.ReceiptUnreceived
	}

	status, ok := ParseStatus(lookupString(raw, "status"))
	if !ok {
		status = models.StatusPending
	}
	o.Status = status

	return o, nil
}

// DecodeCreateInput reads an order submission body that may use snake_case or camelCase keys.
// Any client-supplied price is dropped.
func DecodeCreateInput(raw map[string]any) (CreateInput, error) {
	in := CreateInput{
		Menu:          lookupString(raw, "menu"),
		Milk:          lookupString(raw, "milk"),
		Sugar:         lookupString(raw, "sugar"),
		PaymentMethod: lookupString(raw, "payment_method"),
		ReceiptStatus: lookupString(raw, "receipt_status"),
		Note:          lookupString(raw, "note"),
	}

	if dt, ok := ParseDrinkType(lookupString(raw, "drink_type")); ok {
		in.DrinkType = string(dt)
	} else {
		in.DrinkType = lookupString(raw, "drink_type")
	}

	var err error
	if in.TableNumber, err = lookupInt(raw, "table_number"); err != nil {
		return in, models.NewValidationError("table_number", "must be a whole number")
	}
	if in.CashAmount, err = lookupOptionalInt(raw, "cash_amount"); err != nil {
		return in, models.NewValidationError("cash_amount", "must be a whole number")
	}
	return in, nil
}

// ToRecord renders an order with canonical column names.
func ToRecord(o models.Order) map[string]any {
	rec := map[string]any{
		"created_at":     o.CreatedAt.UTC().Truncate(time.Millisecond),
		"drink_type":     string(o.DrinkType),
		"menu":           o.Menu,
		"price":          o.Price,
		"milk":           o.Milk,
		"sugar":          o.Sugar,
		"table_number":   o.TableNumber,
		"payment_method": o.PaymentMethod,
		"receipt_status": string(o.ReceiptStatus),
		"note":           o.Note,
		"status":         string(o.Status),
	}
	if o.CashAmount != nil {
		rec["cash_amount"] = *o.CashAmount
	} else {
		rec["cash_amount"] = nil
	}
	if o.ID != 0 {
		rec["id"] = o.ID
	}
	return rec
}
