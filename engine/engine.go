package engine

import (
	"sync"
	"time"

	"github.com/RyanBlaney/spectral-bridge/algorithms/fourier"
	"github.com/RyanBlaney/spectral-bridge/algorithms/spectral"
	"github.com/RyanBlaney/spectral-bridge/logging"
)

const (
	// OutFields is the width of every deposited result vector
	OutFields = 12

	// QueueMax bounds the pending job queue; overflow drops the oldest job
	QueueMax = 256

	// RingMax bounds each key's result ring; overflow drops the oldest result
	RingMax = 4096
)

// Job is one unit of spectral work against a logical key. Immutable once
// enqueued: Submit copies the sample slices.
type Job struct {
	Key       int64
	BarTime   int64
	Price     []float64
	Wave      []float64
	WindowMin int
	WindowMax int
	NFFT      int
	Detrend   spectral.Detrend
	MinPeriod float64
	MaxPeriod float64
	Flags     int // reserved for ABI stability, never consulted
}

// Result is the fixed-width output of one job plus its deposit bookkeeping
type Result struct {
	Time int64
	Seq  int64
	Out  [OutFields]float64
}

// Stats is the per-key counter snapshot
type Stats struct {
	JobsOK   uint64
	JobsDrop uint64
	LastMS   float64
	RingLen  int
}

// ChartConfig is the opaque per-key chart side channel
type ChartConfig struct {
	ChartID int64
	Seq     int64
}

// keyContext owns one key's ring and counters. Created lazily, destroyed
// only at shutdown.
type keyContext struct {
	ring     *resultRing
	seq      int64
	jobsOK   uint64
	jobsDrop uint64
	lastMS   float64
}

// Config carries the engine's construction knobs
type Config struct {
	QueueMax int
	RingMax  int
	Backend  fourier.Backend
	Logger   logging.Logger
}

// DefaultConfig returns the production defaults: host backend, bounded
// queue and rings, global logger
func DefaultConfig() Config {
	return Config{
		QueueMax: QueueMax,
		RingMax:  RingMax,
		Backend:  fourier.NewHostBackend(),
		Logger:   logging.WithFields(logging.Fields{"component": "engine"}),
	}
}

// Engine owns the job queue, the single worker, and the per-key result
// rings. One mutex guards all shared state; the worker computes outside it.
type Engine struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	ctx    map[int64]*keyContext
	charts map[int64]ChartConfig

	workerStarted bool
	stopped       bool
	done          chan struct{}

	queueMax int
	ringMax  int
	pg       *spectral.Periodogram
	logger   logging.Logger
}

// New creates an engine; the worker starts lazily on the first accepted job
func New(cfg Config) *Engine {
	if cfg.QueueMax <= 0 {
		cfg.QueueMax = QueueMax
	}
	if cfg.RingMax <= 0 {
		cfg.RingMax = RingMax
	}
	if cfg.Backend == nil {
		cfg.Backend = fourier.NewHostBackend()
	}
	if cfg.Logger == nil {
		cfg.Logger = &logging.NoOpLogger{}
	}
	e := &Engine{
		jobs:     make([]Job, 0, cfg.QueueMax),
		ctx:      make(map[int64]*keyContext),
		charts:   make(map[int64]ChartConfig),
		done:     make(chan struct{}),
		queueMax: cfg.QueueMax,
		ringMax:  cfg.RingMax,
		pg:       spectral.NewPeriodogram(cfg.Backend),
		logger:   cfg.Logger,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// context returns the key's context, creating it if absent. Caller holds the
// lock.
func (e *Engine) context(key int64) *keyContext {
	ctx, ok := e.ctx[key]
	if !ok {
		ctx = &keyContext{ring: newResultRing(e.ringMax)}
		e.ctx[key] = ctx
	}
	return ctx
}

// Submit enqueues a job. Returns false on empty inputs or after shutdown.
// A full queue silently evicts its oldest pending job and charges the drop
// to the incoming key; the submitter is still told the job was accepted.
func (e *Engine) Submit(job Job) bool {
	if len(job.Price) == 0 || len(job.Wave) == 0 {
		return false
	}

	job.Price = append([]float64(nil), job.Price...)
	job.Wave = append([]float64(nil), job.Wave...)

	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return false
	}
	if !e.workerStarted {
		e.workerStarted = true
		go e.worker()
	}
	if len(e.jobs) >= e.queueMax {
		e.jobs = e.jobs[1:]
		e.context(job.Key).jobsDrop++
	}
	e.jobs = append(e.jobs, job)
	e.mu.Unlock()

	e.cond.Signal()
	return true
}

// worker pulls jobs in FIFO order, computes outside the lock, and deposits
// under it
func (e *Engine) worker() {
	defer close(e.done)
	for {
		e.mu.Lock()
		for !e.stopped && len(e.jobs) == 0 {
			e.cond.Wait()
		}
		if e.stopped {
			e.mu.Unlock()
			return
		}
		job := e.jobs[0]
		e.jobs = e.jobs[1:]
		e.mu.Unlock()

		t0 := time.Now()
		res := e.compute(job)
		ms := time.Since(t0).Seconds() * 1000.0

		e.mu.Lock()
		ctx := e.context(job.Key)
		ctx.seq++
		res.Seq = ctx.seq
		ctx.lastMS = ms
		ctx.jobsOK++
		ctx.ring.PushFront(res)
		e.mu.Unlock()
	}
}

// TryGetLatest returns the newest result for a key
func (e *Engine) TryGetLatest(key int64) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.ctx[key]
	if !ok || ctx.ring.Len() == 0 {
		return Result{}, false
	}
	return ctx.ring.At(0)
}

// TryGetByTime scans a key's ring for the first result stamped bar_time
func (e *Engine) TryGetByTime(key, barTime int64) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.ctx[key]
	if !ok {
		return Result{}, false
	}
	for i := 0; i < ctx.ring.Len(); i++ {
		r, _ := ctx.ring.At(i)
		if r.Time == barTime {
			return r, true
		}
	}
	return Result{}, false
}

// TryGetAtIndex returns the result at ring position idx, 0 being the newest
func (e *Engine) TryGetAtIndex(key int64, idx int) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.ctx[key]
	if !ok {
		return Result{}, false
	}
	return ctx.ring.At(idx)
}

// GetStats snapshots a key's counters
func (e *Engine) GetStats(key int64) (Stats, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.ctx[key]
	if !ok {
		return Stats{}, false
	}
	return Stats{
		JobsOK:   ctx.jobsOK,
		JobsDrop: ctx.jobsDrop,
		LastMS:   ctx.lastMS,
		RingLen:  ctx.ring.Len(),
	}, true
}

// SetChart records the chart binding for a key and bumps its config sequence
func (e *Engine) SetChart(key, chartID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.charts[key]
	cfg.ChartID = chartID
	cfg.Seq++
	e.charts[key] = cfg
}

// TryGetChart returns the chart binding for a key
func (e *Engine) TryGetChart(key int64) (ChartConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, ok := e.charts[key]
	return cfg, ok
}

// Shutdown stops the worker, joins it, and drops all state. Once shut down
// the engine accepts no further jobs.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.stopped {
		started := e.workerStarted
		e.mu.Unlock()
		if started {
			<-e.done
		}
		return
	}
	e.stopped = true
	started := e.workerStarted
	e.mu.Unlock()

	e.cond.Broadcast()
	if started {
		<-e.done
	}

	e.mu.Lock()
	e.jobs = nil
	e.ctx = make(map[int64]*keyContext)
	e.charts = make(map[int64]ChartConfig)
	e.mu.Unlock()

	e.logger.Debug("engine shut down")
}
