package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"questctl/internal/notify"
	"questctl/internal/store"
	"questctl/pkg/logging"
)

// Severity orders alerts by urgency.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one alerting event raised by threshold evaluation.
type Alert struct {
	Severity  Severity  `json:"severity"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	// alertListCap bounds the in-memory alert history; the oldest entry is
	// evicted when a new one would exceed it.
	alertListCap = 50
	// dedupWindow suppresses a repeat of the same (service, message) pair
	// raised within this span of the previous occurrence.
	dedupWindow = 5 * time.Minute
)

// AlertManager deduplicates, retains, dispatches and persists alerts. Checks
// for different services run concurrently within a round, so all state is
// guarded by the mutex.
type AlertManager struct {
	mu        sync.Mutex
	alerts    []Alert
	notifiers []notify.Notifier
	store     *store.Store
	now       func() time.Time
}

// NewAlertManager wires the alert sinks. Either sink may be nil, in which
// case alerts are only retained in memory.
func NewAlertManager(notifiers []notify.Notifier, st *store.Store) *AlertManager {
	return &AlertManager{
		notifiers: notifiers,
		store:     st,
		now:       time.Now,
	}
}

// Raise records one alert unless an identical one fired within the
// deduplication window. It reports whether the alert was actually raised.
func (a *AlertManager) Raise(ctx context.Context, severity Severity, service, message string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	for i := len(a.alerts) - 1; i >= 0; i-- {
		prev := a.alerts[i]
		if now.Sub(prev.Timestamp) > dedupWindow {
			break
		}
		if prev.Service == service && prev.Message == message {
			return false
		}
	}

	alert := Alert{
		Severity:  severity,
		Service:   service,
		Message:   message,
		Timestamp: now,
	}
	a.alerts = append(a.alerts, alert)
	if len(a.alerts) > alertListCap {
		a.alerts = a.alerts[len(a.alerts)-alertListCap:]
	}

	logging.Warn("Monitor", "[%s] %s: %s", severity, service, message)

	if a.store != nil {
		if err := a.store.AppendAlert(now, alert); err != nil {
			logging.Error("Monitor", err, "Failed to persist alert for %s", service)
		}
	}
	if len(a.notifiers) > 0 {
		subject := fmt.Sprintf("[%s] %s", severity, service)
		notify.Dispatch(ctx, a.notifiers, subject, message)
	}
	return true
}

// Recent returns up to n alerts, newest first.
func (a *AlertManager) Recent(n int) []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n > len(a.alerts) {
		n = len(a.alerts)
	}
	out := make([]Alert, 0, n)
	for i := len(a.alerts) - 1; i >= len(a.alerts)-n; i-- {
		out = append(out, a.alerts[i])
	}
	return out
}

// All returns a copy of the retained alert history, oldest first.
func (a *AlertManager) All() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Alert, len(a.alerts))
	copy(out, a.alerts)
	return out
}
