package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DueDateOffsetDays is how far after the issue date a new invoice is due.
const DueDateOffsetDays = 15

const dateLayout = "2006-01-02"

// Profile is a sender identity: name, contact info, branding and the
// payment instructions printed on the invoice footer.
type Profile struct {
	Name           string `json:"name"`
	LogoRef        string `json:"logo_ref"`
	Address        string `json:"address"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Portfolio      string `json:"portfolio"`
	PaymentDetails string `json:"payment_details"`
}

// IsBlank reports whether every text field of the profile is empty.
func (p Profile) IsBlank() bool {
	return p.Name == "" && p.LogoRef == "" && p.Address == "" &&
		p.Email == "" && p.Phone == "" && p.Portfolio == "" && p.PaymentDetails == ""
}

// Client is the billed party.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// LineItem is one billable entry.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns quantity times rate.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// Document is the editable invoice state. Subtotal and Total are derived:
// every item mutation recomputes them before the document is observable.
type Document struct {
	Sender         Profile         `json:"sender"`
	Client         Client          `json:"client"`
	Number         string          `json:"number"`
	IssueDate      string          `json:"issue_date"`
	DueDate        string          `json:"due_date"`
	Items          []LineItem      `json:"items"`
	Notes          string          `json:"notes"`
	PaymentDetails string          `json:"payment_details"`
	Paid           bool            `json:"paid"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	Currency       Currency        `json:"currency"`
}

const defaultNotes = "If you have any questions concerning this invoice, use the following contact information:"

// New seeds a fresh document from a sender profile. The invoice number
// starts at YYYY-001, the due date falls DueDateOffsetDays after issue,
// and a single default line item is included.
func New(sender Profile, now time.Time) *Document {
	doc := &Document{
		Sender:         sender,
		Number:         fmt.Sprintf("%d-001", now.Year()),
		IssueDate:      now.Format(dateLayout),
		DueDate:        now.AddDate(0, 0, DueDateOffsetDays).Format(dateLayout),
		Notes:          defaultNotes,
		PaymentDetails: sender.PaymentDetails,
		Currency:       CurrencyPHP,
		Items: []LineItem{
			{
				Description: "Website Development",
				Quantity:    decimal.NewFromInt(1),
				Rate:        decimal.NewFromInt(1000),
			},
		},
	}
	doc.recomputeTotals()
	return doc
}

// ParseAmount parses a quantity or rate from raw form input. Anything that
// does not parse as a number is coerced to zero; that is the defined
// fallback, not an error.
func ParseAmount(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func (d *Document) recomputeTotals() {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Amount())
	}
	d.Subtotal = sum
	d.Total = sum
}
