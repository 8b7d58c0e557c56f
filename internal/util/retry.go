// ABOUTME: Backoff policy for outbound embedding API calls
// ABOUTME: Exponential growth with jitter, capped so batch ingests keep moving
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff bounds a single wait. Embedding calls run inside batch ingests
// where one rate-limited item should never stall the whole run.
const maxBackoff = 20 * time.Second

// CalculateBackoff returns the wait before retry number attempt: the base
// delay doubled per attempt, with random jitter of up to 25% either way.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}

	backoff := baseDelay
	for i := 0; i < attempt && backoff < maxBackoff; i++ {
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
