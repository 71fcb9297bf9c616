package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/threadctl/threadpool/anyval"
)

func TestFuture_GetBlocksUntilComplete(t *testing.T) {
	f := newFuture()

	got := make(chan anyval.Value, 1)
	go func() {
		got <- f.Get()
	}()

	select {
	case <-got:
		t.Fatal("Get returned before the value was set")
	case <-time.After(50 * time.Millisecond):
	}

	f.complete(anyval.New(99))

	select {
	case v := <-got:
		if n := anyval.MustAs[int](v); n != 99 {
			t.Errorf("got %d, want 99", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not return after complete")
	}
}

func TestFuture_GetAfterComplete(t *testing.T) {
	f := newFuture()
	f.complete(anyval.New("done"))

	if s := anyval.MustAs[string](f.Get()); s != "done" {
		t.Errorf("got %q, want %q", s, "done")
	}
}

func TestFuture_RepeatedAndConcurrentGets(t *testing.T) {
	f := newFuture()

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)

	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = anyval.MustAs[int](f.Get())
		}()
	}

	f.complete(anyval.New(7))
	wg.Wait()

	for i, r := range results {
		if r != 7 {
			t.Errorf("reader %d: got %d, want 7", i, r)
		}
	}

	// Still the same value after everyone has read once.
	if n := anyval.MustAs[int](f.Get()); n != 7 {
		t.Errorf("repeat read: got %d, want 7", n)
	}
}

func TestFuture_TryGet(t *testing.T) {
	f := newFuture()

	if _, ok := f.TryGet(); ok {
		t.Error("TryGet should not be ready before complete")
	}

	f.complete(anyval.New(1))

	v, ok := f.TryGet()
	if !ok {
		t.Fatal("TryGet should be ready after complete")
	}
	if n := anyval.MustAs[int](v); n != 1 {
		t.Errorf("got %d, want 1", n)
	}
}

func TestFuture_GetContext(t *testing.T) {
	t.Run("times out while pending", func(t *testing.T) {
		f := newFuture()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := f.GetContext(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v, want context.DeadlineExceeded", err)
		}
	})

	t.Run("returns value when ready", func(t *testing.T) {
		f := newFuture()
		f.complete(anyval.New(5))

		v, err := f.GetContext(context.Background())
		if err != nil {
			t.Fatalf("GetContext failed: %v", err)
		}
		if n := anyval.MustAs[int](v); n != 5 {
			t.Errorf("got %d, want 5", n)
		}
	})
}

func TestFuture_Rejected(t *testing.T) {
	f := newRejectedFuture()

	if f.OK() {
		t.Error("rejected future should not report OK")
	}

	start := time.Now()
	v := f.Get()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Get on a rejected future should not block, took %v", elapsed)
	}
	if v.HasValue() {
		t.Error("rejected future should carry the empty value")
	}

	if _, err := f.GetContext(context.Background()); !errors.Is(err, ErrRejected) {
		t.Errorf("got %v, want ErrRejected", err)
	}

	v, ok := f.TryGet()
	if !ok {
		t.Error("rejected future should be ready immediately")
	}
	if v.HasValue() {
		t.Error("rejected future should be ready with the empty value")
	}

	select {
	case <-f.Done():
	default:
		t.Error("rejected future's Done channel should be closed")
	}
}

func TestFuture_Done(t *testing.T) {
	f := newFuture()

	select {
	case <-f.Done():
		t.Fatal("Done should not be closed before complete")
	default:
	}

	f.complete(anyval.New(0))

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done should be closed after complete")
	}
}

func TestFuture_DoubleCompletePanics(t *testing.T) {
	f := newFuture()
	f.complete(anyval.New(1))

	defer func() {
		if recover() == nil {
			t.Error("second complete should panic")
		}
	}()
	f.complete(anyval.New(2))
}
