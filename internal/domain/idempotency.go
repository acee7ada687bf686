package domain

import "time"

// IdempotencyEntry is a cached response for a mutating request replayed under
// the same Idempotency-Key.
type IdempotencyEntry struct {
	Key          string
	RequestHash  string
	StatusCode   int
	ResponseBody []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
