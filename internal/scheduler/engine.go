// Package scheduler runs named jobs on fixed intervals. Due times live in a
// heap; a job whose previous run is still in flight is skipped for that tick.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidJob    = errors.New("scheduler: invalid job")
	ErrDuplicateJob  = errors.New("scheduler: duplicate job name")
	ErrEngineStopped = errors.New("scheduler: engine stopped")
)

// Job is called with the engine's context and the tick time.
type Job struct {
	Name     string
	Interval time.Duration
	// Immediate runs the job once as soon as the engine starts.
	Immediate bool
	Run       func(ctx context.Context, at time.Time)
}

// Tick is published after a run finishes, or when a run is skipped.
type Tick struct {
	Name    string
	At      time.Time
	Skipped bool
}

type queueItem struct {
	name string
	at   time.Time
	seq  uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].at.Equal(pq[j].at) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].at.Before(pq[j].at)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type jobState struct {
	job     Job
	running atomic.Bool
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	jobs    map[string]*jobState
	seq     uint64
	out     chan Tick
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	runs    sync.WaitGroup
	started bool
	stopped bool
	dropped uint64
	skipped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		queue:  make(priorityQueue, 0),
		jobs:   make(map[string]*jobState),
		out:    make(chan Tick, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// C delivers ticks without ever blocking the engine; ticks that do not fit
// in the buffer are counted by Dropped. Closed by Stop.
func (e *Engine) C() <-chan Tick {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop cancels the context passed to running jobs and waits for them to
// return.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()

	e.cancel()
	if started {
		<-e.doneCh
	}
	e.runs.Wait()
	close(e.out)
}

// Every registers a periodic job. Jobs may be added before or after Start.
func (e *Engine) Every(job Job) error {
	if job.Name == "" || job.Interval <= 0 || job.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidJob, job.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if _, exists := e.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateJob, job.Name)
	}
	e.jobs[job.Name] = &jobState{job: job}

	first := time.Now().Add(job.Interval)
	if job.Immediate {
		first = time.Now()
	}
	e.pushLocked(job.Name, first)
	e.signalWakeup()
	return nil
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Skipped counts ticks that found the previous run still in progress.
func (e *Engine) Skipped() uint64 {
	return atomic.LoadUint64(&e.skipped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.at)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, item := range e.popDue(time.Now()) {
				e.dispatch(item)
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) dispatch(item queueItem) {
	e.mu.Lock()
	state := e.jobs[item.name]
	stopped := e.stopped
	if state != nil && !stopped {
		e.runs.Add(1)
	}
	e.mu.Unlock()
	if state == nil || stopped {
		return
	}

	if !state.running.CompareAndSwap(false, true) {
		e.runs.Done()
		atomic.AddUint64(&e.skipped, 1)
		e.emit(Tick{Name: item.name, At: item.at, Skipped: true})
		return
	}
	go func() {
		defer e.runs.Done()
		defer state.running.Store(false)
		state.job.Run(e.ctx, item.at)
		e.emit(Tick{Name: item.name, At: item.at})
	}()
}

func (e *Engine) emit(t Tick) {
	select {
	case e.out <- t:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) pushLocked(name string, at time.Time) {
	e.seq++
	heap.Push(&e.queue, queueItem{name: name, at: at, seq: e.seq})
}

func (e *Engine) peek() (queueItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return queueItem{}, false
	}
	return e.queue[0], true
}

// popDue removes every item due at now and queues each job's next run. A
// job that fell behind is rescheduled from now rather than replaying the
// missed ticks.
func (e *Engine) popDue(now time.Time) []queueItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]queueItem, 0)
	for len(e.queue) > 0 {
		if e.queue[0].at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item)
		state, ok := e.jobs[item.name]
		if !ok {
			continue
		}
		next := item.at.Add(state.job.Interval)
		if !next.After(now) {
			next = now.Add(state.job.Interval)
		}
		e.pushLocked(item.name, next)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
