// Package loop provides the single-goroutine event loop that drives a
// widget tree. All tree mutations must happen on the loop goroutine; code
// running elsewhere posts work through Post.
package loop

import "sync"

// Loop is a serial task queue backed by one goroutine. It implements
// core.Scheduler, so a BuildOwner constructed with a Loop flushes rebuilds
// as queued tasks.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	running bool
	stopped bool
}

// New creates a stopped loop. Call Run (usually on a dedicated goroutine)
// to start draining tasks.
func New() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post queues a task for execution on the loop goroutine. Safe to call from
// any goroutine. Tasks posted after Stop are dropped.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.tasks = append(l.tasks, task)
	l.cond.Signal()
}

// ScheduleOnce implements core.Scheduler.
func (l *Loop) ScheduleOnce(callback func()) {
	l.Post(callback)
}

// Run drains tasks until Stop is called. It blocks the calling goroutine;
// the caller's goroutine becomes the loop goroutine.
func (l *Loop) Run() {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return
	}
	l.running = true
	for {
		for len(l.tasks) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.stopped && len(l.tasks) == 0 {
			break
		}
		task := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()
		task()
		l.mu.Lock()
	}
	l.running = false
	l.mu.Unlock()
}

// Stop lets Run return once the queue drains. Safe to call from any
// goroutine, including from a task.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
}
