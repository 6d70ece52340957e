package expiry

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Scheduler runs a function once after a delay, on a goroutine other than
// the caller's. Schedule must not block.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

type Options struct {
	// Workers is the number of goroutines running due tasks (default: 10).
	Workers int
	// QueueSize buffers due tasks waiting for a free worker (default: 1024).
	QueueSize int
	// Logger receives panics of tasks (default: slog.Default()).
	Logger *slog.Logger
	// Metrics records scheduling and task outcomes (default: NopMetrics()).
	Metrics Metrics
}

type task struct {
	id string
	fn func()
}

// Pool is a Scheduler backed by one runtime timer per pending task and a
// fixed pool of workers. A due timer does not run its task itself; it hands
// it to the workers through a channel.
type Pool struct {
	log     *slog.Logger
	metrics Metrics
	tasks   chan task

	mu      sync.Mutex
	timers  map[string]*time.Timer
	closed  bool
	sending sync.WaitGroup // timers between their closed check and the send

	workers  sync.WaitGroup
	inflight atomic.Int32
}

// New starts a Pool with opts.Workers workers.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}

	p := &Pool{
		log:     opts.Logger.With(slog.String("component", "expiry")),
		metrics: opts.Metrics,
		tasks:   make(chan task, opts.QueueSize),
		timers:  make(map[string]*time.Timer),
	}

	p.workers.Add(opts.Workers)
	for range opts.Workers {
		go p.work()
	}

	return p
}

// Schedule arranges for fn to run once, delay from now. Tasks scheduled on
// a closed pool are dropped. There is no way to cancel a scheduled task
// other than closing the pool.
func (p *Pool) Schedule(delay time.Duration, fn func()) {
	id := gonanoid.Must(10)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.log.Debug("pool closed, task dropped", slog.String("task", id))
		return
	}

	// fire blocks on p.mu, so the timer is registered before it can run
	p.timers[id] = time.AfterFunc(delay, func() { p.fire(task{id: id, fn: fn}) })
	p.metrics.Scheduled()
	p.metrics.Pending(len(p.timers))
}

// Pending returns the number of tasks whose delay has not elapsed yet.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

func (p *Pool) fire(t task) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	delete(p.timers, t.id)
	p.metrics.Pending(len(p.timers))
	p.sending.Add(1)
	p.mu.Unlock()

	defer p.sending.Done()
	p.tasks <- t
}

func (p *Pool) work() {
	defer p.workers.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	p.metrics.Inflight(int(p.inflight.Add(1)))
	defer func() {
		p.metrics.Inflight(int(p.inflight.Add(-1)))
	}()
	defer p.metrics.TaskDuration().ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			p.metrics.TaskCompleted(false)
			p.log.Error("expiry task panicked", slog.String("task", t.id), slog.Any("recovered", r))
		}
	}()

	t.fn()
	p.metrics.TaskCompleted(true)
}

// Close stops all pending timers and waits for due tasks to finish.
// Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
	p.metrics.Pending(0)
	p.mu.Unlock()

	p.sending.Wait()
	close(p.tasks)
	p.workers.Wait()
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide pool shared by caches that are not given
// their own scheduler. It is never closed.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New(Options{})
	})
	return defaultPool
}

var _ Scheduler = (*Pool)(nil)
