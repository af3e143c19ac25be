package db

import (
	"testing"
	"time"
)

func TestConnectBackoffGrowsAndCaps(t *testing.T) {
	prev := time.Duration(0)

	for attempt := 0; attempt < 5; attempt++ {
		d := connectBackoff(attempt)

		if d <= prev {
			t.Fatalf("attempt %d: backoff %v did not grow past %v", attempt, d, prev)
		}
		prev = d
	}

	// far past the cap, including jitter headroom
	if d := connectBackoff(40); d > time.Minute+time.Second {
		t.Fatalf("backoff %v exceeds the cap", d)
	}
}

func TestConnectBackoffNeverNegative(t *testing.T) {
	for _, attempt := range []int{0, 10, 63, 100} {
		if d := connectBackoff(attempt); d <= 0 {
			t.Fatalf("attempt %d: non-positive backoff %v", attempt, d)
		}
	}
}
