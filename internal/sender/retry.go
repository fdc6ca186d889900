package sender

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds dial attempts. Attempts <= 1 disables retries.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:     1,
		InitialDelay: 250 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
		Jitter:       true,
	}
}

// Delay returns the wait before attempt n (1-based, n >= 2 retries).
func (p RetryPolicy) Delay(n int, rng *rand.Rand) time.Duration {
	if n <= 1 || p.InitialDelay <= 0 {
		return p.InitialDelay
	}
	mult := max(p.Multiplier, 1.0)
	d := float64(p.InitialDelay) * math.Pow(mult, float64(n-2))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter {
		f := 0.5
		if rng != nil {
			f += rng.Float64()
		}
		d *= f
	}
	return time.Duration(d)
}

// DialRetry calls Dial until it succeeds, the policy is exhausted, or ctx
// is done. The last dial error is returned.
func DialRetry(ctx context.Context, transport, addr string, policy RetryPolicy) (*Client, error) {
	attempts := max(policy.Attempts, 1)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for n := 1; n <= attempts; n++ {
		if n > 1 {
			timer := time.NewTimer(policy.Delay(n, rng))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		c, err := Dial(ctx, transport, addr)
		if err == nil {
			return c, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
