package closer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(0)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		c.Add(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{3, 2, 1}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("close order %v, want %v", order, want)
		}
	}
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add(func(ctx context.Context) error { return nil })
	c.Add(func(ctx context.Context) error { return errors.New("redis close failed") })

	err := c.Close(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
}

func TestClose_SecondCallIsNoop(t *testing.T) {
	c := NewCloser(0)

	calls := 0
	c.Add(func(ctx context.Context) error {
		calls++
		return nil
	})

	_ = c.Close(context.Background())
	_ = c.Close(context.Background())

	if calls != 1 {
		t.Fatalf("close func called %d times, want 1", calls)
	}
}

func TestClose_ForcedOnContextTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)

	c.Add(func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	if err == nil {
		t.Fatal("expected interrupted shutdown error")
	}
}
