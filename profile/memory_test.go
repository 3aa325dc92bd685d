package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

func TestMemoryStore_GetSeeded(t *testing.T) {
	store := NewSeededStore()

	got, err := store.Get(context.Background(), "oliverrevelo")
	if err != nil {
		t.Fatalf("get seeded profile: %v", err)
	}
	if got.Name != "Oliver Revelo" {
		t.Fatalf("expected Oliver Revelo, got %q", got.Name)
	}
	if got.Email == "" || got.LogoRef == "" {
		t.Fatalf("expected seeded contact fields, got %+v", got)
	}
}

func TestMemoryStore_GetCustomIsBlank(t *testing.T) {
	store := NewSeededStore()

	got, err := store.Get(context.Background(), CustomKey)
	if err != nil {
		t.Fatalf("get custom profile: %v", err)
	}
	if !got.IsBlank() {
		t.Fatalf("expected blank profile for custom key, got %+v", got)
	}
}

func TestMemoryStore_GetUnknownKey(t *testing.T) {
	store := NewSeededStore()

	_, err := store.Get(context.Background(), "nobody")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if kind := invoice.KindFromError(err); kind != invoice.KindNotFound {
		t.Fatalf("expected not_found kind, got %s", kind)
	}
}

func TestMemoryStore_ListIncludesAllSeeds(t *testing.T) {
	store := NewSeededStore()

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	for _, key := range []string{"oliverrevelo", "lanceflores"} {
		if _, ok := all[key]; !ok {
			t.Fatalf("expected seed %q in listing", key)
		}
	}
}

func TestMemoryStore_DelayHonorsContext(t *testing.T) {
	store := NewSeededStore()
	store.Delay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "oliverrevelo")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
