package service

import (
	"context"
	"testing"
	"time"
)

func TestCarousel_CyclesModulo(t *testing.T) {
	c := NewCarousel(3)

	if got := c.Next(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := c.Next(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := c.Next(); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
	if got := c.Prev(); got != 2 {
		t.Errorf("expected wrap back to 2, got %d", got)
	}
}

func TestCarousel_SelectIdempotent(t *testing.T) {
	c := NewCarousel(4)
	c.Select(2)

	if got := c.Select(2); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := c.Current(); got != 2 {
		t.Errorf("expected current 2, got %d", got)
	}
}

func TestCarousel_SelectWraps(t *testing.T) {
	c := NewCarousel(3)

	if got := c.Select(7); got != 1 {
		t.Errorf("expected 7 mod 3 = 1, got %d", got)
	}
	if got := c.Select(-1); got != 2 {
		t.Errorf("expected -1 to wrap to 2, got %d", got)
	}
}

func TestCarousel_Empty(t *testing.T) {
	c := NewCarousel(0)

	if got := c.Next(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := c.Select(5); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCarousel_AutoAdvance(t *testing.T) {
	c := NewCarousel(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for c.Current() == 0 {
		select {
		case <-deadline:
			t.Fatal("carousel never advanced")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
