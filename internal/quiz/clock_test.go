package quiz_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edu_manage_backend/internal/quiz"
)

func TestClockExpiresExactlyOnce(t *testing.T) {
	var fired int32
	done := make(chan struct{})

	start := time.Now()
	clock := quiz.NewClock(nil, func() {
		if atomic.AddInt32(&fired, 1) == 1 {
			close(done)
		}
	})
	clock.Start(50 * time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("clock never expired")
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("expired after %v, before the configured duration", elapsed)
	}

	// Give a duplicate firing a chance to show up.
	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected exactly one expiry, got %d", n)
	}
}

func TestClockZeroDurationExpiresAsynchronously(t *testing.T) {
	// The expiry callback blocks until released. If Start invoked the
	// callback synchronously this test would deadlock instead of
	// returning, so Start completing at all proves the asynchrony.
	release := make(chan struct{})
	fired := make(chan struct{})
	clock := quiz.NewClock(nil, func() {
		<-release
		close(fired)
	})

	clock.Start(0)
	close(release)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("zero-duration clock never expired")
	}
}

func TestClockCancelPreventsExpiry(t *testing.T) {
	var fired int32
	clock := quiz.NewClock(nil, func() { atomic.AddInt32(&fired, 1) })
	clock.Start(30 * time.Millisecond)
	clock.Cancel()

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("expired %d times after cancel", n)
	}
}

func TestClockCancelRacingExpiry(t *testing.T) {
	// Hammer the cancel/expiry race: whatever the interleaving, once
	// Cancel has returned no further expiry may fire.
	for i := 0; i < 50; i++ {
		var fired int32
		clock := quiz.NewClock(nil, func() { atomic.AddInt32(&fired, 1) })

		var wg sync.WaitGroup
		wg.Add(1)
		clock.Start(time.Millisecond)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			clock.Cancel()
		}()
		wg.Wait()

		before := atomic.LoadInt32(&fired)
		time.Sleep(10 * time.Millisecond)
		after := atomic.LoadInt32(&fired)

		if after > 1 {
			t.Fatalf("iteration %d: expiry fired %d times", i, after)
		}
		if after != before {
			t.Fatalf("iteration %d: expiry fired after Cancel returned", i)
		}
	}
}

func TestClockTicksReportRemaining(t *testing.T) {
	ticks := make(chan time.Duration, 8)
	clock := quiz.NewClock(func(remaining time.Duration) {
		select {
		case ticks <- remaining:
		default:
		}
	}, nil)
	defer clock.Cancel()

	clock.Start(5 * time.Second)

	select {
	case remaining := <-ticks:
		if remaining <= 0 || remaining > 5*time.Second {
			t.Fatalf("implausible remaining time %v", remaining)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within three seconds of a one-second cadence")
	}
}

func TestClockStartTwiceIsNoop(t *testing.T) {
	var fired int32
	clock := quiz.NewClock(nil, func() { atomic.AddInt32(&fired, 1) })
	clock.Start(20 * time.Millisecond)
	clock.Start(20 * time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected one expiry from a doubly started clock, got %d", n)
	}
}
