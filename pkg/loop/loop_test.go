package loop

import (
	"sync"
	"testing"
	"time"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := New()
	var mu sync.Mutex
	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	l.Post(l.Stop)
	l.Run()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("tasks ran in order %v, want [1 2 3]", order)
	}
}

func TestLoop_PostFromOtherGoroutine(t *testing.T) {
	l := New()
	done := make(chan struct{})

	go func() {
		l.Post(func() { close(done) })
		l.Post(l.Stop)
	}()
	l.Run()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}
}

func TestLoop_RunAfterStopReturnsImmediately(t *testing.T) {
	l := New()
	ran := 0
	l.Post(func() { ran++ })
	l.Post(func() { ran++ })
	l.Stop()
	l.Run()

	if ran != 0 {
		t.Fatalf("stopped loop ran %d tasks", ran)
	}
}

func TestLoop_PostAfterStopDropped(t *testing.T) {
	l := New()
	l.Stop()
	ran := false
	l.Post(func() { ran = true })
	l.Run()
	if ran {
		t.Fatal("task posted after Stop still ran")
	}
}
