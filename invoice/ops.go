package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

// Sender field names accepted by SetSenderField.
const (
	FieldSenderName      = "name"
	FieldSenderAddress   = "address"
	FieldSenderEmail     = "email"
	FieldSenderPhone     = "phone"
	FieldSenderPortfolio = "portfolio"
)

// Scalar field names accepted by SetField.
const (
	FieldNumber         = "number"
	FieldIssueDate      = "issue_date"
	FieldDueDate        = "due_date"
	FieldNotes          = "notes"
	FieldPaymentDetails = "payment_details"
	FieldPaid           = "paid"
	FieldCurrency       = "currency"
)

// Item field names accepted by SetItem.
const (
	FieldItemDescription = "description"
	FieldItemQuantity    = "quantity"
	FieldItemRate        = "rate"
)

// SetSenderField updates one sender identity field by name.
func (d *Document) SetSenderField(name, value string) error {
	switch name {
	case FieldSenderName:
		d.Sender.Name = value
	case FieldSenderAddress:
		d.Sender.Address = value
	case FieldSenderEmail:
		d.Sender.Email = value
	case FieldSenderPhone:
		d.Sender.Phone = value
	case FieldSenderPortfolio:
		d.Sender.Portfolio = value
	default:
		return NewError(KindValidation, fmt.Sprintf("unknown sender field %q", name), nil)
	}
	return nil
}

// SetClientField updates one client field by name.
func (d *Document) SetClientField(name, value string) error {
	switch name {
	case "name":
		d.Client.Name = value
	case "address":
		d.Client.Address = value
	default:
		return NewError(KindValidation, fmt.Sprintf("unknown client field %q", name), nil)
	}
	return nil
}

// SetField updates one scalar document field by name. Checkbox input for
// the paid flag is coerced to a boolean ("on", "true" and "1" are truthy);
// unrecognized currencies fall back per Currency.Symbol at render time.
func (d *Document) SetField(name, value string) error {
	switch name {
	case FieldNumber:
		d.Number = value
	case FieldIssueDate:
		d.IssueDate = value
	case FieldDueDate:
		d.DueDate = value
	case FieldNotes:
		d.Notes = value
	case FieldPaymentDetails:
		d.PaymentDetails = value
	case FieldPaid:
		d.Paid = parseCheckbox(value)
	case FieldCurrency:
		d.Currency = Currency(strings.ToUpper(strings.TrimSpace(value)))
	default:
		return NewError(KindValidation, fmt.Sprintf("unknown field %q", name), nil)
	}
	return nil
}

// SetItem updates one field of the line item at index from raw form input.
// Quantity and rate coerce unparseable input to zero. Totals are consistent
// before the call returns.
func (d *Document) SetItem(index int, field, raw string) error {
	if index < 0 || index >= len(d.Items) {
		return NewError(KindValidation, fmt.Sprintf("item index %d out of range", index), nil)
	}
	switch field {
	case FieldItemDescription:
		d.Items[index].Description = raw
	case FieldItemQuantity:
		d.Items[index].Quantity = ParseAmount(raw)
	case FieldItemRate:
		d.Items[index].Rate = ParseAmount(raw)
	default:
		return NewError(KindValidation, fmt.Sprintf("unknown item field %q", field), nil)
	}
	d.recomputeTotals()
	return nil
}

// AddItem appends a new line item with quantity 1, rate 0 and an empty
// description.
func (d *Document) AddItem() {
	d.Items = append(d.Items, LineItem{
		Quantity: ParseAmount("1"),
	})
	d.recomputeTotals()
}

// RemoveItem deletes the line item at index, preserving the relative order
// of the remaining items.
func (d *Document) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return NewError(KindValidation, fmt.Sprintf("item index %d out of range", index), nil)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.recomputeTotals()
	return nil
}

func parseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "checked":
		return true
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}
