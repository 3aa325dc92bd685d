package invoice

import "github.com/shopspring/decimal"

// Currency is the invoice display currency.
type Currency string

const (
	CurrencyPHP Currency = "PHP"
	CurrencyUSD Currency = "USD"
)

// Symbol returns the display symbol for the currency. Unmapped values fall
// back to the dollar sign.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyPHP:
		return "₱"
	case CurrencyUSD:
		return "$"
	default:
		return "$"
	}
}

// FormatAmount renders an amount with the currency symbol and two decimal
// places, the way the document template displays rates and totals.
func (c Currency) FormatAmount(amount decimal.Decimal) string {
	return c.Symbol() + amount.StringFixed(2)
}
