package faults

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(ErrTransient, "store", "append document", "write failed", base)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	want := "transient failure: store: append document: write failed: disk full"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "store", "open", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("nil marker should default to transient, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", Wrap(ErrTransient, "store", "write", "", nil), true},
		{"integrity", Wrap(ErrIntegrity, "decode", "walk", "stuck", nil), false},
		{"validation", Wrap(ErrValidation, "config", "load", "", nil), false},
		{"not found", Wrap(ErrNotFound, "store", "get", "", nil), false},
		{"untagged", errors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 5, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return Wrap(ErrTransient, "store", "write", "", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryNeverRetriesIntegrity(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), DefaultRetry, func() error {
		calls++
		return Wrap(ErrIntegrity, "decode", "walk", "leftover edges", nil)
	})
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("integrity failure must not retry, got %d calls", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		return Wrap(ErrTransient, "store", "write", "", nil)
	})
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient error after exhaustion, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, RetryPolicy{Attempts: 3, Delay: time.Minute}, func() error {
		return Wrap(ErrTransient, "store", "write", "", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
