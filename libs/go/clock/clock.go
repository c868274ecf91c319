// Package clock abstracts time so cache expiry and retry timing can be
// driven deterministically in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock is the time source injected into the cache and services
type Clock interface {
	Now() time.Time
	// After behaves like time.After. A non-positive d fires immediately.
	After(d time.Duration) <-chan time.Time
}

// Real returns a Clock backed by the time package
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// FakeClock only moves when Advance or Set is called. Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// Fake returns a FakeClock frozen at initial
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}
	c.waiters = append(c.waiters, fakeWaiter{deadline: c.current.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward by d and fires due waiters in deadline order
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	due := c.collectDueLocked()
	c.mu.Unlock()

	for _, w := range due {
		w.ch <- w.deadline
	}
}

// Set jumps the clock to t, which may be in the past
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	due := c.collectDueLocked()
	c.mu.Unlock()

	for _, w := range due {
		w.ch <- w.deadline
	}
}

// Pending returns the number of After waiters that have not fired
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *FakeClock) collectDueLocked() []fakeWaiter {
	var due, remaining []fakeWaiter
	for _, w := range c.waiters {
		if !w.deadline.After(c.current) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	return due
}
