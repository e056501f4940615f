package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var got []string
	v.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	if v.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", v.Pending())
	}
	if n := v.Advance(20 * time.Millisecond); n != 2 {
		t.Fatalf("Advance fired %d, want 2", n)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v, want [a b]", got)
	}
	if !v.Now().Equal(epoch.Add(20 * time.Millisecond)) {
		t.Errorf("Now() = %v", v.Now())
	}
	v.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("order = %v, want [a b c]", got)
	}
}

func TestVirtualStop(t *testing.T) {
	v := NewVirtual(epoch)
	ran := false
	timer := v.AfterFunc(time.Second, func() { ran = true })
	if !timer.Stop() {
		t.Error("first Stop() = false")
	}
	if timer.Stop() {
		t.Error("second Stop() = true")
	}
	v.Advance(2 * time.Second)
	if ran || v.Pending() != 0 {
		t.Error("stopped timer fired")
	}

	fired := v.AfterFunc(0, func() {})
	v.Advance(0)
	if fired.Stop() {
		t.Error("Stop() after firing = true")
	}
}

func TestVirtualChained(t *testing.T) {
	v := NewVirtual(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			v.AfterFunc(100*time.Millisecond, tick)
		}
	}
	v.AfterFunc(100*time.Millisecond, tick)

	v.Advance(250 * time.Millisecond)
	if count != 2 {
		t.Errorf("count = %d after 250ms, want 2", count)
	}
	if n := v.RunPending(100); n != 3 || count != 5 {
		t.Errorf("RunPending ran %d, count = %d", n, count)
	}
}

func TestVirtualStep(t *testing.T) {
	v := NewVirtual(epoch)
	v.SetStep(10 * time.Millisecond)
	a := v.Now()
	b := v.Now()
	if b.Sub(a) != 10*time.Millisecond {
		t.Errorf("step = %v, want 10ms", b.Sub(a))
	}
}

func TestLoop(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		i := i
		if err := loop.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	wg.Wait()
	if len(order) != 3 || order[0] != 0 || order[2] != 2 {
		t.Errorf("order = %v", order)
	}

	fired := make(chan struct{})
	loop.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}

	stopped := loop.AfterFunc(time.Hour, func() { t.Error("stopped timer fired") })
	if !stopped.Stop() {
		t.Error("Stop() = false for a pending timer")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if err := loop.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Post after stop = %v, want ErrLoopStopped", err)
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	done := make(chan struct{})
	_ = loop.Post(func() { panic("boom") })
	_ = loop.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop stopped after a panicking task")
	}
}
