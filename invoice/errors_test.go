package invoice

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindFromError(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{NewError(KindValidation, "bad input", nil), KindValidation},
		{fmt.Errorf("wrapped: %w", NewError(KindNotFound, "missing", nil)), KindNotFound},
		{context.DeadlineExceeded, KindTimeout},
		{context.Canceled, KindCanceled},
		{errors.New("plain"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindFromError(tc.err); got != tc.want {
			t.Fatalf("kind for %v: expected %s, got %s", tc.err, tc.want, got)
		}
	}
	if got := KindFromError(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %s", got)
	}
}

func TestAsGoError_TextCodes(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		code string
	}{
		{KindValidation, "validation"},
		{KindNotFound, "not_found"},
		{KindConflict, "conflict"},
		{KindTimeout, "timeout"},
		{KindCanceled, "canceled"},
		{KindInternal, "internal"},
	}
	for _, tc := range cases {
		ge := AsGoError(NewError(tc.kind, "boom", nil))
		if ge == nil {
			t.Fatalf("expected mapped error for kind %s", tc.kind)
		}
		if ge.TextCode != tc.code {
			t.Fatalf("kind %s: expected text code %q, got %q", tc.kind, tc.code, ge.TextCode)
		}
		if ge.Message != "boom" {
			t.Fatalf("kind %s: expected message boom, got %q", tc.kind, ge.Message)
		}
	}
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := NewError(KindInternal, "save failed", cause)

	if err.Error() != "save failed: disk full" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive unwrapping")
	}
}
