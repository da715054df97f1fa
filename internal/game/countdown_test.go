package game

import (
	"sync"
	"testing"
	"time"
)

func TestCountdownTicksDownAndExpiresOnce(t *testing.T) {
	cd := NewCountdown(2 * time.Millisecond)

	var mu sync.Mutex
	var ticks []int
	expired := make(chan struct{})
	expiries := 0

	cd.Start(3,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() {
			mu.Lock()
			expiries++
			mu.Unlock()
			close(expired)
		},
	)

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}

	// Give a potential stray goroutine time to misbehave.
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := []int{3, 2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, ticks)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("expected ticks %v, got %v", want, ticks)
		}
	}
	if expiries != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expiries)
	}
}

func TestCountdownCancelStopsCallbacks(t *testing.T) {
	cd := NewCountdown(2 * time.Millisecond)

	var mu sync.Mutex
	fired := false

	cd.Start(1000,
		func(int) {},
		func() {
			mu.Lock()
			fired = true
			mu.Unlock()
		},
	)
	cd.Cancel()
	cd.Cancel() // idempotent

	if got := cd.Remaining(); got != 0 {
		t.Fatalf("cancelled countdown reports remaining %d", got)
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Fatal("expiry fired after cancel")
	}
}

func TestCountdownRestartSupersedesOldRun(t *testing.T) {
	cd := NewCountdown(2 * time.Millisecond)

	var mu sync.Mutex
	var ticks []int
	done := make(chan struct{})

	cd.Start(50,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() { close(done) },
	)
	cd.Restart(2)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("restarted countdown never expired")
	}

	mu.Lock()
	defer mu.Unlock()
	// The superseded run may contribute at most its opening tick of 50; the
	// restarted run owns the countdown.
	stale := 0
	for _, tick := range ticks {
		if tick > 2 {
			stale++
		}
	}
	if stale > 1 {
		t.Fatalf("superseded run kept ticking: %v", ticks)
	}
	for _, want := range []int{2, 1, 0} {
		found := false
		for _, tick := range ticks {
			if tick == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing restart tick %d in %v", want, ticks)
		}
	}
}

func TestCountdownRestartFromExpiry(t *testing.T) {
	cd := NewCountdown(2 * time.Millisecond)

	var mu sync.Mutex
	expiries := 0
	done := make(chan struct{})

	cd.Start(1,
		func(int) {},
		func() {
			mu.Lock()
			expiries++
			n := expiries
			mu.Unlock()
			if n == 1 {
				cd.Restart(1) // restarting inside onExpire must be safe
				return
			}
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second expiry never arrived")
	}

	mu.Lock()
	defer mu.Unlock()
	if expiries != 2 {
		t.Fatalf("expected 2 expiries, got %d", expiries)
	}
}
