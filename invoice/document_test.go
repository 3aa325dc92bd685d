package invoice

import (
	"testing"
	"time"
)

func newTestDocument() *Document {
	return New(Profile{Name: "Oliver Revelo"}, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestNew_SeedsDefaults(t *testing.T) {
	doc := newTestDocument()

	if doc.Number != "2025-001" {
		t.Fatalf("expected number 2025-001, got %q", doc.Number)
	}
	if doc.IssueDate != "2025-06-01" {
		t.Fatalf("expected issue date 2025-06-01, got %q", doc.IssueDate)
	}
	if doc.DueDate != "2025-06-16" {
		t.Fatalf("expected due date 15 days out, got %q", doc.DueDate)
	}
	if len(doc.Items) != 1 {
		t.Fatalf("expected one seeded item, got %d", len(doc.Items))
	}
	if !doc.Subtotal.Equal(doc.Total) {
		t.Fatalf("subtotal %s != total %s", doc.Subtotal, doc.Total)
	}
	if doc.Total.StringFixed(2) != "1000.00" {
		t.Fatalf("expected seeded total 1000.00, got %s", doc.Total.StringFixed(2))
	}
}

func assertTotals(t *testing.T, doc *Document, want string) {
	t.Helper()
	expected := ParseAmount(want)
	sum := expected.Sub(expected) // zero with matching exponent
	for _, item := range doc.Items {
		sum = sum.Add(item.Amount())
	}
	if !doc.Subtotal.Equal(sum) || !doc.Total.Equal(sum) {
		t.Fatalf("totals out of sync with items: subtotal=%s total=%s sum=%s", doc.Subtotal, doc.Total, sum)
	}
	if !doc.Total.Equal(expected) {
		t.Fatalf("expected total %s, got %s", want, doc.Total)
	}
}

func TestDocument_TotalsFollowItemMutations(t *testing.T) {
	doc := newTestDocument()
	assertTotals(t, doc, "1000")

	doc.AddItem()
	if err := doc.SetItem(1, FieldItemQuantity, "2"); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if err := doc.SetItem(1, FieldItemRate, "50"); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	assertTotals(t, doc, "1100")

	if err := doc.RemoveItem(0); err != nil {
		t.Fatalf("remove item: %v", err)
	}
	assertTotals(t, doc, "100")
}

func TestDocument_AddItemDefaults(t *testing.T) {
	doc := newTestDocument()
	doc.AddItem()

	item := doc.Items[len(doc.Items)-1]
	if item.Description != "" {
		t.Fatalf("expected empty description, got %q", item.Description)
	}
	if item.Quantity.StringFixed(0) != "1" {
		t.Fatalf("expected quantity 1, got %s", item.Quantity)
	}
	if !item.Rate.IsZero() {
		t.Fatalf("expected rate 0, got %s", item.Rate)
	}
}

func TestDocument_RemoveItemPreservesOrder(t *testing.T) {
	doc := newTestDocument()
	doc.AddItem()
	doc.AddItem()
	for i, desc := range []string{"first", "second", "third"} {
		if err := doc.SetItem(i, FieldItemDescription, desc); err != nil {
			t.Fatalf("set description: %v", err)
		}
	}

	if err := doc.RemoveItem(1); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[0].Description != "first" || doc.Items[1].Description != "third" {
		t.Fatalf("unexpected order after removal: %q, %q", doc.Items[0].Description, doc.Items[1].Description)
	}
}

func TestDocument_RemoveItemOutOfRange(t *testing.T) {
	doc := newTestDocument()
	if err := doc.RemoveItem(5); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
	if err := doc.RemoveItem(-1); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestParseAmount_CoercesBadInputToZero(t *testing.T) {
	for _, raw := range []string{"abc", "", "  ", "1.2.3"} {
		if got := ParseAmount(raw); !got.IsZero() {
			t.Fatalf("expected %q to coerce to 0, got %s", raw, got)
		}
	}
	if got := ParseAmount(" 12.50 "); got.StringFixed(2) != "12.50" {
		t.Fatalf("expected 12.50, got %s", got)
	}
}

func TestDocument_SetItemCoercesBadNumbers(t *testing.T) {
	doc := newTestDocument()
	if err := doc.SetItem(0, FieldItemQuantity, "abc"); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if !doc.Items[0].Quantity.IsZero() {
		t.Fatalf("expected quantity coerced to 0, got %s", doc.Items[0].Quantity)
	}
	if !doc.Total.IsZero() {
		t.Fatalf("expected total 0 after coercion, got %s", doc.Total)
	}
}

func TestDocument_SetFieldRoutesByName(t *testing.T) {
	doc := newTestDocument()

	if err := doc.SetField(FieldPaid, "on"); err != nil {
		t.Fatalf("set paid: %v", err)
	}
	if !doc.Paid {
		t.Fatalf("expected paid flag set from checkbox value")
	}

	if err := doc.SetField(FieldCurrency, "usd"); err != nil {
		t.Fatalf("set currency: %v", err)
	}
	if doc.Currency != CurrencyUSD {
		t.Fatalf("expected USD, got %s", doc.Currency)
	}

	if err := doc.SetField("bogus", "x"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDocument_SenderAndClientFields(t *testing.T) {
	doc := newTestDocument()

	if err := doc.SetSenderField(FieldSenderEmail, "me@example.com"); err != nil {
		t.Fatalf("set sender field: %v", err)
	}
	if doc.Sender.Email != "me@example.com" {
		t.Fatalf("sender email not applied")
	}

	if err := doc.SetClientField("name", "Acme Corp"); err != nil {
		t.Fatalf("set client field: %v", err)
	}
	if doc.Client.Name != "Acme Corp" {
		t.Fatalf("client name not applied")
	}

	if err := doc.SetSenderField("bogus", "x"); err == nil {
		t.Fatalf("expected error for unknown sender field")
	}
}
