// Package monitor polls the production services, keeps rolling health
// metrics per service, raises threshold alerts, and persists a daily report.
// All state is owned by the polling goroutine; everything else consumes
// immutable snapshots.
package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"questctl/internal/config"
	"questctl/internal/notify"
	"questctl/internal/store"
	"questctl/pkg/logging"
)

// recentAlertCount is how many alerts a snapshot carries for rendering.
const recentAlertCount = 5

// Config assembles a monitor. Zero-value fields get production defaults.
type Config struct {
	Monitor    config.MonitorConfig
	Notifiers  []notify.Notifier
	Store      *store.Store
	HTTPClient *http.Client

	// OnRender, when set, is invoked with a fresh snapshot on every tick of
	// the render timer and once after the initial round. The console renderer
	// prints it; the TUI forwards it to its event loop.
	OnRender func(Snapshot)
}

// Monitor is the long-running poller.
type Monitor struct {
	cfg      config.MonitorConfig
	client   *http.Client
	alerts   *AlertManager
	store    *store.Store
	renderFn func(Snapshot)

	// metrics is keyed by service name; each entry is mutated only by that
	// service's check within a round.
	metrics map[string]*ServiceMetrics

	mu       sync.RWMutex
	snapshot Snapshot

	pollNow  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once

	// done is created by Start and closed when the loop exits.
	done chan struct{}
}

// New builds a monitor from the configuration.
func New(cfg Config) *Monitor {
	st := cfg.Store
	if st == nil {
		st = store.New("deployments", cfg.Monitor.DataDir)
	}
	client := cfg.HTTPClient
	if client == nil {
		// Timeouts are applied per request through contexts.
		client = &http.Client{}
	}

	metrics := make(map[string]*ServiceMetrics, len(cfg.Monitor.Services))
	for _, svc := range cfg.Monitor.Services {
		metrics[svc.Name] = NewServiceMetrics()
	}

	return &Monitor{
		cfg:      cfg.Monitor,
		client:   client,
		alerts:   NewAlertManager(cfg.Notifiers, st),
		store:    st,
		renderFn: cfg.OnRender,
		metrics:  metrics,
		pollNow:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Start runs one synchronous polling round, renders it, then keeps polling
// and rendering on independent timers until Stop or context cancellation.
func (m *Monitor) Start(ctx context.Context) {
	logging.Info("Monitor", "Monitoring %d services every %s", len(m.cfg.Services), m.cfg.Interval)

	m.runRound(ctx)
	m.render()

	m.done = make(chan struct{})
	go m.loop(ctx)
}

// Stop ends the polling loop. In-flight checks finish on their own request
// timeouts; Stop only stops scheduling new rounds and renders.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.done != nil {
		<-m.done
	}
}

// ForcePoll schedules an immediate extra round without disturbing the
// regular cadence. Coalesces if a forced round is already pending.
func (m *Monitor) ForcePoll() {
	select {
	case m.pollNow <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recent projection of the monitor's state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	poll := time.NewTicker(m.cfg.Interval)
	defer poll.Stop()
	render := time.NewTicker(m.cfg.RenderInterval)
	defer render.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-poll.C:
			m.runRound(ctx)
		case <-m.pollNow:
			m.runRound(ctx)
		case <-render.C:
			m.render()
		}
	}
}

// runRound checks every service concurrently, evaluates thresholds once the
// checks have joined, publishes a fresh snapshot and persists the daily
// report.
func (m *Monitor) runRound(ctx context.Context) {
	var wg sync.WaitGroup
	for _, svc := range m.cfg.Services {
		wg.Add(1)
		go func(svc config.MonitorService) {
			defer wg.Done()
			m.checkService(ctx, svc, m.metrics[svc.Name])
		}(svc)
	}
	wg.Wait()

	for _, svc := range m.cfg.Services {
		m.evaluateThresholds(ctx, svc.Name, m.metrics[svc.Name])
	}

	now := time.Now()
	snapshot := m.buildSnapshot(now)

	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()

	if err := m.store.SaveDailyReport(now, snapshot); err != nil {
		logging.Error("Monitor", err, "Failed to persist daily report")
	}
}

func (m *Monitor) render() {
	if m.renderFn == nil {
		return
	}
	m.renderFn(m.Snapshot())
}
