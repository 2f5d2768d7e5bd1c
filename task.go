package osdns

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/resolver"
)

// State is the lifecycle position of a lookup task.
type State int32

const (
	// StateCreated means the task holds its query parameters but has not
	// been picked up by a worker yet.
	StateCreated State = iota
	// StateRunning means a worker is executing the blocking lookup and
	// decode pipeline.
	StateRunning
	// StateCompleted means the decoded values were delivered.
	StateCompleted
	// StateFailed means the first error encountered was delivered.
	StateFailed
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Callback receives a task's terminal result exactly once: either a non-nil
// error, or the decoded values in answer-section order (possibly empty).
type Callback func(err error, values []string)

// Task is one scheduled lookup. It is created by Runner.Lookup and runs to
// completion on a worker; there is no cancellation.
type Task struct {
	name  string
	class dns.QueryClass
	qtype dns.QueryType
	cb    Callback
	state atomic.Int32
}

// State reports the task's current lifecycle state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// run executes the full pipeline (blocking lookup, answer parse, per-record
// decode) and delivers the terminal result. It is invoked exactly once, by
// the worker that dequeues the task.
func (t *Task) run(newClient func() (*resolver.Client, error)) {
	t.state.Store(int32(StateRunning))
	values, err := t.execute(newClient)
	if err != nil {
		t.state.Store(int32(StateFailed))
		t.cb(err, nil)
		return
	}
	t.state.Store(int32(StateCompleted))
	t.cb(nil, values)
}

func (t *Task) execute(newClient func() (*resolver.Client, error)) ([]string, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	raw, err := client.Lookup(context.Background(), t.name, t.class, t.qtype)
	if err != nil {
		return nil, err
	}
	answer, err := dns.ParseAnswer(raw)
	if err != nil {
		return nil, err
	}
	return answer.DecodeAll(t.qtype)
}

// taskQueueDepth bounds how many submitted-but-unstarted tasks the runner
// holds. Submission blocks once the queue is full, providing backpressure
// instead of unbounded growth.
const taskQueueDepth = 1024

// ErrRunnerClosed is returned by Lookup after Shutdown.
var ErrRunnerClosed = errors.New("lookup runner is closed")

// Runner owns the worker pool that executes lookup tasks off the callers'
// goroutines. Workers share nothing but the queue: every task constructs
// its own resolver client and releases it on exit.
type Runner struct {
	// NewClient constructs the per-task resolver client. It defaults to
	// loading the system resolver configuration; tests substitute a
	// constructor pointing at a fixture configuration.
	NewClient func() (*resolver.Client, error)

	logger *slog.Logger
	tasks  chan *Task
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRunner starts a runner with the given number of workers; workers <= 0
// means one per available CPU. A nil logger disables logging.
func NewRunner(workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Runner{
		logger: logger,
		tasks:  make(chan *Task, taskQueueDepth),
	}
	r.NewClient = func() (*resolver.Client, error) {
		return resolver.New(r.logger)
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for t := range r.tasks {
		t.run(r.NewClient)
	}
}

// Lookup schedules an asynchronous lookup for (name, class, qtype). The
// callback fires exactly once, from a worker goroutine, with either the
// decoded values or the first error encountered. The returned task exposes
// lifecycle state for observation only.
func (r *Runner) Lookup(name string, class dns.QueryClass, qtype dns.QueryType, cb Callback) (*Task, error) {
	t := &Task{name: name, class: class, qtype: qtype, cb: cb}

	// The read lock spans the channel send so Shutdown cannot close the
	// queue between the closed check and the send.
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrRunnerClosed
	}
	r.tasks <- t
	return t, nil
}

// Resolve schedules a lookup and blocks until its result arrives. The
// context bounds only the wait: if it expires, the task still runs to
// completion on its worker and the buffered delivery is discarded.
func (r *Runner) Resolve(ctx context.Context, name string, qtype dns.QueryType) ([]string, error) {
	type outcome struct {
		values []string
		err    error
	}
	ch := make(chan outcome, 1)
	if _, err := r.Lookup(name, ClassIN, qtype, func(err error, values []string) {
		ch <- outcome{values: values, err: err}
	}); err != nil {
		return nil, err
	}

	select {
	case o := <-ch:
		return o.values, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops accepting new tasks and waits for queued and running tasks
// to finish. Every accepted task is still delivered.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()
	r.wg.Wait()
}
