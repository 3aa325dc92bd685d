package invoice

import "testing"

func TestCurrency_Symbol(t *testing.T) {
	cases := []struct {
		currency Currency
		want     string
	}{
		{CurrencyPHP, "₱"},
		{CurrencyUSD, "$"},
		{Currency("EUR"), "$"},
		{Currency(""), "$"},
	}
	for _, tc := range cases {
		if got := tc.currency.Symbol(); got != tc.want {
			t.Fatalf("symbol for %q: expected %q, got %q", tc.currency, tc.want, got)
		}
	}
}

func TestCurrency_FormatAmount(t *testing.T) {
	got := CurrencyPHP.FormatAmount(ParseAmount("1500.5"))
	if got != "₱1500.50" {
		t.Fatalf("expected ₱1500.50, got %q", got)
	}

	got = CurrencyUSD.FormatAmount(ParseAmount("0"))
	if got != "$0.00" {
		t.Fatalf("expected $0.00, got %q", got)
	}
}
