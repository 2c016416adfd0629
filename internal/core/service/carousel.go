package service

import (
	"context"
	"sync"
	"time"
)

// Carousel is the banner index state machine. The index cycles modulo
// the banner count; selecting the already-active index is a no-op. A
// zero-banner carousel stays at index 0 and ignores navigation.
type Carousel struct {
	mu    sync.Mutex
	count int
	index int
}

func NewCarousel(count int) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count}
}

func (c *Carousel) Len() int {
	return c.count
}

func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Select moves to index i modulo the banner count and returns the new
// current index. Negative indexes wrap backwards.
func (c *Carousel) Select(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(i)
}

func (c *Carousel) selectLocked(i int) int {
	if c.count == 0 {
		return 0
	}
	c.index = ((i % c.count) + c.count) % c.count
	return c.index
}

func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(c.index + 1)
}

func (c *Carousel) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(c.index - 1)
}

// Run auto-advances the carousel on the given interval until ctx is
// done. Manual navigation does not reset the interval.
func (c *Carousel) Run(ctx context.Context, interval time.Duration) {
	if c.count == 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Next()
		}
	}
}
