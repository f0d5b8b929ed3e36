package mdbundle

// Notes:
// - Tests lazy service creation and reuse across acquire/release cycles
// - Tests pool size clamping and blocking behavior at capacity
// - Tests ResolvePoolSize priority and bounds

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestServicePool_AcquireRelease - Reuse
// ---------------------------------------------------------------------------

func TestServicePool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2, WithOutputName("pooled.pdf"))

	first := pool.Acquire()
	if first == nil {
		t.Fatal("expected a service from the pool")
	}
	if first.cfg.outputName != "pooled.pdf" {
		t.Errorf("pool options not applied: output name = %q", first.cfg.outputName)
	}

	second := pool.Acquire()
	if second == nil {
		t.Fatal("expected a second service from the pool")
	}
	if first == second {
		t.Error("distinct acquires before release should yield distinct services")
	}

	pool.Release(first)
	third := pool.Acquire()
	if third != first {
		t.Error("released service should be reused before creating new ones")
	}

	pool.Release(second)
	pool.Release(third)
}

// ---------------------------------------------------------------------------
// TestServicePool_BlocksAtCapacity - Saturation
// ---------------------------------------------------------------------------

func TestServicePool_BlocksAtCapacity(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1)
	svc := pool.Acquire()

	acquired := make(chan *Service, 1)
	go func() {
		acquired <- pool.Acquire()
	}()

	select {
	case <-acquired:
		t.Fatal("acquire should block while the only service is in use")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(svc)

	select {
	case got := <-acquired:
		if got != svc {
			t.Error("blocked acquire should receive the released service")
		}
		pool.Release(got)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

// ---------------------------------------------------------------------------
// TestServicePool_Size - Capacity Clamping
// ---------------------------------------------------------------------------

func TestServicePool_Size(t *testing.T) {
	t.Parallel()

	if got := NewServicePool(4).Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
	if got := NewServicePool(0).Size(); got != 1 {
		t.Errorf("Size() with zero = %d, want 1", got)
	}
	if got := NewServicePool(-3).Size(); got != 1 {
		t.Errorf("Size() with negative = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// TestServicePool_ConcurrentUse - Race Smoke Test
// ---------------------------------------------------------------------------

func TestServicePool_ConcurrentUse(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(3)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := pool.Acquire()
			defer pool.Release(svc)
			if svc == nil {
				t.Error("acquired nil service")
			}
		}()
	}
	wg.Wait()
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Sizing Priority
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	t.Run("explicit workers win", func(t *testing.T) {
		t.Parallel()

		if got := ResolvePoolSize(5); got != 5 {
			t.Errorf("ResolvePoolSize(5) = %d, want 5", got)
		}
		if got := ResolvePoolSize(1); got != 1 {
			t.Errorf("ResolvePoolSize(1) = %d, want 1", got)
		}
	})

	t.Run("auto stays within bounds", func(t *testing.T) {
		t.Parallel()

		got := ResolvePoolSize(0)
		if got < MinPoolSize || got > MaxPoolSize {
			t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
		}

		want := runtime.GOMAXPROCS(0) / 2
		if want < MinPoolSize {
			want = MinPoolSize
		}
		if want > MaxPoolSize {
			want = MaxPoolSize
		}
		if got != want {
			t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
		}
	})

	t.Run("negative treated as auto", func(t *testing.T) {
		t.Parallel()

		got := ResolvePoolSize(-1)
		if got < MinPoolSize || got > MaxPoolSize {
			t.Errorf("ResolvePoolSize(-1) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
		}
	})
}
