// Package profile supplies the read-only sender identities an invoice can
// be issued from. Stores are injectable so the seeded table can live in
// code, a database, or anything else that satisfies Store.
package profile

import (
	"context"
	"fmt"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// CustomKey is the distinguished key for the blank, user-populated sender.
const CustomKey = "custom"

// Store resolves sender profiles by key.
type Store interface {
	// List returns every stored profile keyed by its URL slug. The custom
	// entry is not part of the listing; callers surface it separately.
	List(ctx context.Context) (map[string]invoice.Profile, error)
	// Get resolves one profile. The CustomKey always yields a blank
	// profile; any other unknown key yields a not_found error.
	Get(ctx context.Context, key string) (invoice.Profile, error)
}

// Blank returns the empty profile used for the custom sender path.
func Blank() invoice.Profile {
	return invoice.Profile{}
}

// ErrNotFound builds the not-found error for an unknown profile key.
func ErrNotFound(key string) error {
	return invoice.NewError(invoice.KindNotFound, fmt.Sprintf("profile %q not found", key), nil)
}
