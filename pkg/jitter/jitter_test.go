package jitter

import (
	"math/rand"
	"testing"
	"time"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 2 * time.Second
	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		if d < base || d > base+time.Duration(DefaultJitter*float64(base)) {
			t.Fatalf("duration %v out of [%v, %v]", d, base, base+time.Second)
		}
	}
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	a := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))
	b := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))
	if a != b {
		t.Fatalf("same seed produced different durations: %v != %v", a, b)
	}
}

func TestExponentialBackoff_CappedAtMax(t *testing.T) {
	base := 2 * time.Second
	max := 30 * time.Second

	for attempt := 0; attempt < 20; attempt++ {
		d := ExponentialBackoff(base, max, attempt, 0)
		if d > max {
			t.Fatalf("attempt %d: backoff %v exceeds max %v", attempt, d, max)
		}
	}

	// Без джиттера нулевая попытка равна базе.
	if d := ExponentialBackoff(base, max, 0, 0); d != base {
		t.Fatalf("attempt 0: got %v, want %v", d, base)
	}
}
