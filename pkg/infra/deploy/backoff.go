package deploy

import "time"

// BackoffPolicy maps an attempt number (1-origin) to the wait duration
// before the next attempt
type BackoffPolicy func(attempt int) time.Duration

// Exponential returns a policy of base * 2^(attempt-1), capped at max
func Exponential(base, max time.Duration) BackoffPolicy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= max || d <= 0 {
				return max
			}
		}
		if d > max {
			return max
		}
		return d
	}
}
