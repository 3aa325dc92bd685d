package profile

import (
	"context"
	"time"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// MemoryStore serves profiles from an in-process table. Delay, when set,
// simulates network latency on every lookup.
type MemoryStore struct {
	Delay    time.Duration
	profiles map[string]invoice.Profile
}

// NewMemoryStore creates a store over a copy of the given table.
func NewMemoryStore(profiles map[string]invoice.Profile) *MemoryStore {
	table := make(map[string]invoice.Profile, len(profiles))
	for key, p := range profiles {
		table[key] = p
	}
	return &MemoryStore{profiles: table}
}

// NewSeededStore creates a store over the default seeded profiles.
func NewSeededStore() *MemoryStore {
	return NewMemoryStore(SeedProfiles())
}

// List returns a copy of the profile table.
func (s *MemoryStore) List(ctx context.Context) (map[string]invoice.Profile, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]invoice.Profile, len(s.profiles))
	for key, p := range s.profiles {
		out[key] = p
	}
	return out, nil
}

// Get resolves one profile by key.
func (s *MemoryStore) Get(ctx context.Context, key string) (invoice.Profile, error) {
	if err := s.wait(ctx); err != nil {
		return invoice.Profile{}, err
	}
	if key == CustomKey {
		return Blank(), nil
	}
	p, ok := s.profiles[key]
	if !ok {
		return invoice.Profile{}, ErrNotFound(key)
	}
	return p, nil
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SeedProfiles returns the built-in sender records.
func SeedProfiles() map[string]invoice.Profile {
	return map[string]invoice.Profile{
		"oliverrevelo": {
			Name:           "Oliver Revelo",
			LogoRef:        "/public/oliver-logo.png",
			Address:        "Rizal, Philippines",
			Email:          "oancholarevelo@gmail.com",
			Phone:          "+63 947 533 7630",
			Portfolio:      "oliverrevelo.vercel.app",
			PaymentDetails: "Bank Transfer:\nBPI: 1234-5678-90\n\nGCash:\n09475337630 (Oliver R.)",
		},
		"lanceflores": {
			Name:           "Lance Flores",
			LogoRef:        "/public/lance-logo.png",
			Address:        "Quezon City, Philippines",
			Email:          "hello.lanceflores@gmail.com",
			Phone:          "+63 916 287 0007",
			Portfolio:      "lanceflores.netlify.app",
			PaymentDetails: "Bank Transfer:\nBDO: 0987-6543-21\n\nGCash:\n09162870007 (Lance F.)",
		},
	}
}
