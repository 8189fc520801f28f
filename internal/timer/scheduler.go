// Package timer schedules one-shot tasks on a min-heap and executes them
// on a small worker pool. Used by the aggregator service to drive the
// daily rollup.
package timer

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

// ErrSchedulerStopped is returned by Schedule after Stop.
var ErrSchedulerStopped = errors.New("scheduler is stopped")

type task struct {
	id    string
	runAt time.Time
	fn    func()
	index int
}

// taskHeap is a min-heap ordered by runAt.
type taskHeap []*task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].runAt.Before(h[j].runAt) }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *taskHeap) Push(x interface{}) { t := x.(*task); t.index = len(*h); *h = append(*h, t) }

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler runs tasks at their scheduled time. Scheduling a task with an
// existing ID replaces the pending task.
type Scheduler struct {
	mu      sync.Mutex
	heap    taskHeap
	byID    map[string]*task
	wakeup  chan struct{}
	jobs    chan func()
	stopCh  chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

// NewScheduler creates a scheduler with the given number of workers.
func NewScheduler(workers int) *Scheduler {
	if workers <= 0 {
		workers = 1
	}

	s := &Scheduler{
		byID:   make(map[string]*task),
		wakeup: make(chan struct{}, 1),
		jobs:   make(chan func(), workers),
		stopCh: make(chan struct{}),
	}
	heap.Init(&s.heap)

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.wg.Add(1)
	go s.run()

	return s
}

// Schedule registers fn to run at runAt, replacing any pending task with
// the same ID.
func (s *Scheduler) Schedule(id string, runAt time.Time, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSchedulerStopped
	}

	if existing, ok := s.byID[id]; ok {
		heap.Remove(&s.heap, existing.index)
	}

	t := &task{id: id, runAt: runAt, fn: fn}
	heap.Push(&s.heap, t)
	s.byID[id] = t

	if s.heap[0] == t {
		select {
		case s.wakeup <- struct{}{}:
		default:
		}
	}

	return nil
}

// Cancel removes a pending task. Returns false when no such task exists.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok {
		return false
	}

	heap.Remove(&s.heap, t.index)
	delete(s.byID, id)
	return true
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Stop shuts the scheduler down and waits for in-flight tasks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		s.mu.Lock()

		// Default wait when the heap is empty.
		wait := time.Hour

		if s.heap.Len() > 0 {
			next := s.heap[0]
			wait = time.Until(next.runAt)

			if wait <= 0 {
				t := heap.Pop(&s.heap).(*task)
				delete(s.byID, t.id)
				s.mu.Unlock()

				select {
				case s.jobs <- t.fn:
				case <-s.stopCh:
					return
				}
				continue
			}
		}

		s.mu.Unlock()

		expire := time.NewTimer(wait)
		select {
		case <-expire.C:
		case <-s.wakeup:
			expire.Stop()
		case <-s.stopCh:
			expire.Stop()
			return
		}
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case fn := <-s.jobs:
			fn()
		case <-s.stopCh:
			return
		}
	}
}
