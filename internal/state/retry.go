package state

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/fitbot/internal/storage"
)

const (
	DefaultRetries = 2
	InitialBackoff = 50 * time.Millisecond
	MaxBackoff     = time.Second
)

// withRetry runs fn up to attempts times with exponential backoff between tries.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := backoff
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempt == attempts-1 {
			return err
		}
		if delay <= 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		delay *= 2
		if delay > MaxBackoff {
			delay = MaxBackoff
		}
	}
	return err
}

func isRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, storage.ErrUnknownSlot),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
