package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"newsletter-feed/internal/observability/logging"
)

const (
	// DefaultPollInterval is the refresh period when none is configured.
	DefaultPollInterval = 30 * time.Minute
	// DefaultCycleTimeout bounds one resolution cycle.
	DefaultCycleTimeout = 30 * time.Second
)

// Cycle outcomes reported to a CycleObserver.
const (
	CycleReady       = "ready"
	CycleUnavailable = "unavailable"
	CycleDiscarded   = "discarded"
)

// ErrPollerStopped is returned by Start once Stop has been called.
var ErrPollerStopped = errors.New("poller stopped")

// Phase is the controller's position in its cycle.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseLoading
)

func (p Phase) String() string {
	if p == PhaseLoading {
		return "loading"
	}
	return "idle"
}

// PollerConfig configures a Poller. Zero values select the defaults.
type PollerConfig struct {
	Interval     time.Duration
	CycleTimeout time.Duration
}

// CycleObserver receives cycle telemetry. A nil observer is allowed.
type CycleObserver interface {
	ObserveCycle(outcome string, duration time.Duration)
	ObserveSkip()
}

// Poller re-resolves the latest newsletter on a fixed interval and replaces
// the container content on every transition. At most one cycle is in
// flight; a trigger that arrives during a cycle is skipped.
type Poller struct {
	cfg       PollerConfig
	src       Source
	renderer  Renderer
	container Container
	observer  CycleObserver

	inFlight  atomic.Bool
	stopped   atomic.Bool
	completed atomic.Int64

	// transition is held while a cycle renders; Stop waits on it so nothing
	// is rendered once Stop has returned.
	transition sync.Mutex

	mu    sync.Mutex
	sched *cron.Cron
	last  DisplayState
}

// NewPoller wires a poller. observer may be nil.
func NewPoller(cfg PollerConfig, src Source, renderer Renderer, container Container, observer CycleObserver) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = DefaultCycleTimeout
	}
	return &Poller{
		cfg:       cfg,
		src:       src,
		renderer:  renderer,
		container: container,
		observer:  observer,
	}
}

// Interval returns the effective refresh period.
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// Start schedules periodic cycles. Cycles started by the schedule run with
// ctx. Calling Start twice keeps the first schedule.
func (p *Poller) Start(ctx context.Context) error {
	if p.stopped.Load() {
		return ErrPollerStopped
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sched != nil {
		return nil
	}

	c := cron.New()
	c.Schedule(cron.Every(p.cfg.Interval), cron.FuncJob(func() {
		p.Trigger(ctx)
	}))
	c.Start()
	p.sched = c

	slog.Info("newsletter poller started",
		slog.String("source", p.src.Name()),
		slog.Duration("interval", p.cfg.Interval))
	return nil
}

// Stop clears the schedule. A cycle already in flight completes but its
// result is not rendered. Stop is idempotent.
func (p *Poller) Stop() {
	if p.stopped.Swap(true) {
		return
	}
	p.transition.Lock()
	//nolint:staticcheck // empty critical section waits for an in-progress render
	p.transition.Unlock()

	p.mu.Lock()
	sched := p.sched
	p.sched = nil
	p.mu.Unlock()

	if sched != nil {
		// Do not wait for a running job; its result is discarded.
		sched.Stop()
	}
	slog.Info("newsletter poller stopped", slog.String("source", p.src.Name()))
}

// Run performs the initial load, keeps refreshing until ctx is done and
// then stops the schedule.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	p.Trigger(ctx)
	<-ctx.Done()
	p.Stop()
	return nil
}

// Trigger runs one cycle synchronously. It returns false without fetching
// when the poller is stopped or another cycle is in flight.
func (p *Poller) Trigger(ctx context.Context) bool {
	if p.stopped.Load() {
		return false
	}
	if !p.acquire() {
		return false
	}
	defer p.inFlight.Store(false)

	start := time.Now()
	if !p.showUnlessStopped(ctx, Loading()) {
		return false
	}

	cycleCtx, cancel := context.WithTimeout(ctx, p.cfg.CycleTimeout)
	state := Resolve(cycleCtx, p.src)
	cancel()

	if !p.showUnlessStopped(ctx, state) {
		p.observe(CycleDiscarded, time.Since(start))
		return true
	}
	p.completed.Add(1)

	outcome := CycleUnavailable
	if state.Status == StatusReady {
		outcome = CycleReady
	}
	p.observe(outcome, time.Since(start))
	return true
}

// acquire claims the in-flight slot. Stop may land between the caller's
// stopped check and the claim, so it is checked again once the slot is held.
func (p *Poller) acquire() bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		slog.Debug("newsletter poll skipped, cycle in flight",
			slog.String("source", p.src.Name()))
		if p.observer != nil {
			p.observer.ObserveSkip()
		}
		return false
	}
	if p.stopped.Load() {
		p.inFlight.Store(false)
		return false
	}
	return true
}

// Phase reports whether a cycle is in flight.
func (p *Poller) Phase() Phase {
	if p.inFlight.Load() {
		return PhaseLoading
	}
	return PhaseIdle
}

// Last returns the most recently rendered state.
func (p *Poller) Last() DisplayState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Completed returns the number of cycles whose result was rendered.
func (p *Poller) Completed() int64 {
	return p.completed.Load()
}

// Running reports whether the schedule is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sched != nil
}

// showUnlessStopped renders state unless the poller was stopped or ctx is done.
func (p *Poller) showUnlessStopped(ctx context.Context, state DisplayState) bool {
	p.transition.Lock()
	defer p.transition.Unlock()
	if p.stopped.Load() || ctx.Err() != nil {
		return false
	}
	p.show(ctx, state)
	return true
}

func (p *Poller) show(ctx context.Context, state DisplayState) {
	fragment := p.renderer.Render(state)
	if err := p.container.Replace(ctx, fragment); err != nil {
		slog.Warn("failed to update newsletter container",
			slog.String("state", state.Status.String()),
			slog.String("error", logging.SanitizeError(err)))
	}

	p.mu.Lock()
	p.last = state
	p.mu.Unlock()
}

func (p *Poller) observe(outcome string, d time.Duration) {
	if p.observer != nil {
		p.observer.ObserveCycle(outcome, d)
	}
}
