package faults

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel markers for failure classification. Callers wrap component errors
// with exactly one marker so the pipeline can decide retry and reporting
// behavior without string matching.
var (
	// ErrIntegrity marks structural corruption: a bond graph violating flow
	// conservation, a stuck or leftover decode, a rank set with gaps. Fatal
	// for the document, never retried, never repaired.
	ErrIntegrity = errors.New("integrity error")

	// ErrTransient marks failures worth a bounded retry, such as store I/O
	// hiccups and lock contention.
	ErrTransient = errors.New("transient failure")

	// ErrValidation marks bad input or configuration detected up front.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks lookups for documents or vocab entries that do not
	// exist.
	ErrNotFound = errors.New("not found")
)

// Wrap tags err with a marker and component context. The marker should be
// one of the sentinels above; nil defaults to ErrTransient.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}

// Retryable reports whether err is worth another attempt. Integrity and
// validation failures never are; unclassified errors are treated as
// transient only when explicitly tagged.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrIntegrity) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return false
	}
	return errors.Is(err, ErrTransient)
}

// RetryPolicy bounds the Retry helper. The zero value retries nothing.
type RetryPolicy struct {
	Attempts int           // total attempts including the first
	Delay    time.Duration // delay before the second attempt
	MaxDelay time.Duration // cap for the doubling delay; 0 means no cap
}

// DefaultRetry is the store-write policy: three attempts, short doubling
// backoff.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted. Context cancellation wins over the policy.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.Delay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(err) || attempt == attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return err
}
