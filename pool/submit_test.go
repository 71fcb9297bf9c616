package pool_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/threadctl/threadpool/anyval"
	"github.com/threadctl/threadpool/pool"
)

func TestPool_Submit_BasicFunctionality(t *testing.T) {
	p := pool.New()

	if err := p.Start(4); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown(time.Second)

	f := p.SubmitFunc(func() anyval.Value {
		return anyval.New("result-42")
	})

	if !f.OK() {
		t.Fatal("submission should be accepted")
	}

	got, err := anyval.As[string](f.Get())
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	if got != "result-42" {
		t.Errorf("result = %q, want %q", got, "result-42")
	}
}

func TestPool_Submit_GetBlocksUntilCompletion(t *testing.T) {
	p := pool.New()

	if err := p.Start(2); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown(time.Second)

	f := p.SubmitFunc(func() anyval.Value {
		time.Sleep(30 * time.Millisecond)
		sum := 0
		for i := 1; i <= 100; i++ {
			sum += i
		}
		return anyval.New(sum)
	})

	start := time.Now()
	got, err := anyval.As[int](f.Get())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	if got != 5050 {
		t.Errorf("sum = %d, want 5050", got)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("Get returned in %v, should have blocked until the task ran", elapsed)
	}
}

func TestPool_Submit_MultipleSubmissions(t *testing.T) {
	p := pool.New()

	if err := p.Start(4); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown(time.Second)

	numTasks := 100
	futures := make([]*pool.Future, numTasks)
	for i := range numTasks {
		futures[i] = p.SubmitFunc(func() anyval.Value {
			return anyval.New(i * 2)
		})
	}

	for i, f := range futures {
		got, err := anyval.As[int](f.Get())
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		if got != i*2 {
			t.Errorf("task %d = %d, want %d", i, got, i*2)
		}
	}

	st := p.Stats()
	if st.Submitted != uint64(numTasks) {
		t.Errorf("submitted = %d, want %d", st.Submitted, numTasks)
	}
}

func TestPool_Submit_TaskErrorInValue(t *testing.T) {
	p := pool.New()

	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown(time.Second)

	errBoom := errors.New("boom")
	f := p.SubmitFunc(func() anyval.Value {
		return anyval.New(fmt.Errorf("task failed: %w", errBoom))
	})

	got, err := anyval.As[error](f.Get())
	if err != nil {
		t.Fatalf("failed to read error value: %v", err)
	}
	if !errors.Is(got, errBoom) {
		t.Errorf("expected wrapped boom error, got %v", got)
	}
}

func TestPool_Submit_RejectsWhenQueueFull(t *testing.T) {
	p := pool.New(
		pool.WithQueueCapacity(2),
		pool.WithSubmitWait(20*time.Millisecond),
	)

	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	gate := make(chan struct{})
	p.SubmitFunc(func() anyval.Value { // occupies the worker
		<-gate
		return anyval.New(true)
	})
	time.Sleep(50 * time.Millisecond) // let the worker dequeue it

	for range 2 {
		if f := p.SubmitFunc(func() anyval.Value { return anyval.New(true) }); !f.OK() {
			t.Fatal("queue should have room")
		}
	}

	start := time.Now()
	f := p.SubmitFunc(func() anyval.Value { return anyval.New(true) })
	elapsed := time.Since(start)

	if f.OK() {
		t.Error("submission to a full queue should be rejected")
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("rejection came before the submit wait elapsed: %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("rejection took far too long: %v", elapsed)
	}

	// A rejected future is ready immediately and carries the empty value.
	if v := f.Get(); v.HasValue() {
		t.Error("rejected future should not carry a value")
	}
	if _, err := anyval.As[bool](f.Get()); !errors.Is(err, anyval.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}

	if st := p.Stats(); st.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", st.Rejected)
	}

	close(gate)
	p.Shutdown(time.Second)
}

func TestPool_Submit_PreservesFIFOOrder(t *testing.T) {
	p := pool.New()

	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	gate := make(chan struct{})
	p.SubmitFunc(func() anyval.Value {
		<-gate
		return anyval.New(true)
	})

	var mu sync.Mutex
	var order []int

	numTasks := 20
	for i := range numTasks {
		p.SubmitFunc(func() anyval.Value {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return anyval.New(i)
		})
	}

	close(gate)
	if err := p.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != numTasks {
		t.Fatalf("ran %d tasks, want %d", len(order), numTasks)
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("position %d ran task %d, want %d (order %v)", i, got, i, order)
		}
	}
}

func TestPool_Submit_ExactlyOnce(t *testing.T) {
	p := pool.New()

	if err := p.Start(8); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	numTasks := 200
	counters := make([]atomic.Int32, numTasks)
	for i := range numTasks {
		p.SubmitFunc(func() anyval.Value {
			counters[i].Add(1)
			return anyval.New(i)
		})
	}

	if err := p.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	for i := range counters {
		if got := counters[i].Load(); got != 1 {
			t.Errorf("task %d ran %d times, want exactly once", i, got)
		}
	}
}

func TestPool_Submit_NilTask(t *testing.T) {
	p := pool.New()

	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown(time.Second)

	f := p.Submit(nil)
	if f.OK() {
		t.Error("nil task should be rejected")
	}
	if st := p.Stats(); st.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", st.Rejected)
	}
}

func TestPool_Submit_ConcurrentSubmitters(t *testing.T) {
	p := pool.New()

	if err := p.Start(4); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	var sum atomic.Int64
	var wg sync.WaitGroup

	submitters, perSubmitter := 8, 50
	for range submitters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 1; j <= perSubmitter; j++ {
				p.SubmitFunc(func() anyval.Value {
					sum.Add(int64(j))
					return anyval.New(j)
				})
			}
		}()
	}
	wg.Wait()

	if err := p.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	want := int64(submitters) * int64(perSubmitter*(perSubmitter+1)/2)
	if got := sum.Load(); got != want {
		t.Errorf("sum = %d, want %d", got, want)
	}

	st := p.Stats()
	if st.Completed != uint64(submitters*perSubmitter) {
		t.Errorf("completed = %d, want %d", st.Completed, submitters*perSubmitter)
	}
}
