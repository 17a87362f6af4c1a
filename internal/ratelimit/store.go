// Package ratelimit implements fixed-window request counting with
// interchangeable in-memory and Redis backends.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a counter check for one key.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	Limit     int       `json:"limit"`
}

// Store counts requests per key within a fixed window. A fresh key (or one
// whose window has elapsed) starts a new window with count=1; until the
// window elapses every Check increments the count. This is deliberately a
// fixed-window counter: a client can burst up to 2x the limit across a
// window boundary.
type Store interface {
	// Check records one request against key and reports whether it is
	// within the limit.
	Check(ctx context.Context, key string, max int, window time.Duration) (Result, error)
	// Peek reports the current state for key without recording a request.
	Peek(ctx context.Context, key string, max int) (Result, error)
	// Reset drops the counter for key.
	Reset(ctx context.Context, key string) error
	// Clear drops every counter. Test and admin use only.
	Clear(ctx context.Context) error
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
