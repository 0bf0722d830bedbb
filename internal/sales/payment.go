package sales

import "strings"

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	Payment4Yen  PaymentMethod = "4-yen"
	Payment1Yen  PaymentMethod = "1-yen"
	PaymentSlot  PaymentMethod = "slot"
	PaymentOther PaymentMethod = "other"
)

// PaymentMethods is the closed set of normalized methods, in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, Payment4Yen, Payment1Yen, PaymentSlot, PaymentOther}

var paymentAliases = map[string]PaymentMethod{
	"cash":    PaymentCash,
	"現金":      PaymentCash,
	"4-yen":   Payment4Yen,
	"4円":      Payment4Yen,
	"4パチ":     Payment4Yen,
	"4-pachi": Payment4Yen,
	"1-yen":   Payment1Yen,
	"1円":      Payment1Yen,
	"1パチ":     Payment1Yen,
	"1-pachi": Payment1Yen,
	"slot":    PaymentSlot,
	"スロ":      PaymentSlot,
}

// NormalizePaymentMethod maps free-form input onto the closed method set.
func NormalizePaymentMethod(raw string) PaymentMethod {
	if m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return m
	}
	return PaymentOther
}
