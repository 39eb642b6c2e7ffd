package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questctl/internal/config"
	"questctl/internal/store"
)

func staticServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func apiServer(t *testing.T, healthBody string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(healthBody))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newTestMonitor builds a monitor with alerting thresholds disabled so tests
// only see the alerts they provoke on purpose.
func newTestMonitor(t *testing.T, services []config.MonitorService) *Monitor {
	t.Helper()

	dataDir := t.TempDir()
	cfg := config.DefaultMonitorConfig()
	cfg.Services = services
	cfg.Thresholds = config.Thresholds{}
	cfg.DataDir = dataDir

	return New(Config{
		Monitor: cfg,
		Store:   store.New(filepath.Join(dataDir, "deployments"), dataDir),
	})
}

func TestRoundRecordsMetricsAndPersistsReport(t *testing.T) {
	frontend := staticServer(t)
	api := apiServer(t, `{"status":"healthy","performance":{"avg_response_time_ms":120,"memory_usage":{"heap_used_mb":40}}}`)

	m := newTestMonitor(t, []config.MonitorService{
		{Name: "frontend", URL: frontend.URL, Type: config.ServiceTypeStatic},
		{Name: "api", URL: api.URL, Type: config.ServiceTypeAPI, HealthCheck: "/health"},
	})

	m.runRound(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, OverallHealthy, snap.Overall)
	require.Len(t, snap.Services, 2)

	assert.Equal(t, "frontend", snap.Services[0].Name)
	assert.Equal(t, StatusHealthy, snap.Services[0].Status)
	assert.Equal(t, DeploymentUnknown, snap.Services[0].DeploymentHealth)

	assert.Equal(t, StatusHealthy, snap.Services[1].Status)
	assert.Equal(t, DeploymentHealthy, snap.Services[1].DeploymentHealth)
	assert.Equal(t, 1, snap.Services[1].TotalRequests)
	assert.Equal(t, 1.0, snap.Services[1].Availability)

	report := filepath.Join(m.cfg.DataDir, time.Now().Format("2006-01-02")+".json")
	_, err := os.Stat(report)
	assert.NoError(t, err)
}

func TestConsecutiveFailuresRaiseOneCriticalAlert(t *testing.T) {
	down := failingServer(t)
	m := newTestMonitor(t, []config.MonitorService{
		{Name: "api", URL: down.URL, Type: config.ServiceTypeStatic},
	})

	for i := 0; i < 4; i++ {
		m.runRound(context.Background())
	}

	assert.Equal(t, 4, m.metrics["api"].ConsecutiveFailures)
	assert.Equal(t, StatusUnhealthy, m.metrics["api"].Status)

	// The alert fires exactly when the streak reaches the limit, not on
	// every later round.
	all := m.alerts.All()
	require.Len(t, all, 1)
	assert.Equal(t, SeverityCritical, all[0].Severity)
	assert.Contains(t, all[0].Message, "3 consecutive")
}

func TestErrorRateAlertStatesComputedPercentage(t *testing.T) {
	m := newTestMonitor(t, []config.MonitorService{{Name: "api"}})
	m.cfg.Thresholds.ErrorRate = 0.05

	metrics := m.metrics["api"]
	for i := 0; i < 47; i++ {
		metrics.RecordSuccess(50 * time.Millisecond)
	}
	for i := 0; i < 3; i++ {
		metrics.RecordFailure()
	}

	m.evaluateThresholds(context.Background(), "api", metrics)
	m.evaluateThresholds(context.Background(), "api", metrics)

	// Deduplication keeps the repeat evaluation from doubling the alert.
	all := m.alerts.All()
	require.Len(t, all, 1)
	assert.Equal(t, SeverityCritical, all[0].Severity)
	assert.Equal(t, "Error rate 6.0% exceeds threshold 5.0%", all[0].Message)
}

func TestAvailabilityAndResponseTimeThresholds(t *testing.T) {
	m := newTestMonitor(t, []config.MonitorService{{Name: "api"}})
	m.cfg.Thresholds = config.Thresholds{ResponseTimeMs: 2000, Availability: 0.95}

	metrics := m.metrics["api"]
	for i := 0; i < 9; i++ {
		metrics.RecordSuccess(3 * time.Second)
	}
	metrics.RecordFailure()

	m.evaluateThresholds(context.Background(), "api", metrics)

	all := m.alerts.All()
	require.Len(t, all, 2)
	assert.Equal(t, SeverityWarning, all[0].Severity)
	assert.Contains(t, all[0].Message, "Average response time")
	assert.Equal(t, SeverityCritical, all[1].Severity)
	assert.Equal(t, "Availability 90.0% below threshold 95.0%", all[1].Message)
}

func TestDeepCheckDegradedStatus(t *testing.T) {
	api := apiServer(t, `{"status":"degraded","performance":{"avg_response_time_ms":100,"memory_usage":{"heap_used_mb":30}}}`)
	m := newTestMonitor(t, []config.MonitorService{
		{Name: "api", URL: api.URL, Type: config.ServiceTypeAPI, HealthCheck: "/health"},
	})

	m.runRound(context.Background())

	metrics := m.metrics["api"]
	assert.Equal(t, StatusHealthy, metrics.Status)
	assert.Equal(t, DeploymentDegraded, metrics.DeploymentHealth)

	all := m.alerts.All()
	require.Len(t, all, 1)
	assert.Equal(t, SeverityWarning, all[0].Severity)
	assert.Contains(t, all[0].Message, `status "degraded"`)
}

func TestDeepCheckFailureKeepsOuterStatusHealthy(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(api.Close)

	m := newTestMonitor(t, []config.MonitorService{
		{Name: "api", URL: api.URL, Type: config.ServiceTypeAPI, HealthCheck: "/health"},
	})

	m.runRound(context.Background())

	metrics := m.metrics["api"]
	assert.Equal(t, StatusHealthy, metrics.Status)
	assert.Equal(t, DeploymentUnhealthy, metrics.DeploymentHealth)
	assert.Empty(t, m.alerts.All())
}

func TestDeepCheckPerformanceWarnings(t *testing.T) {
	api := apiServer(t, `{"status":"healthy","performance":{"avg_response_time_ms":2500,"memory_usage":{"heap_used_mb":150}}}`)
	m := newTestMonitor(t, []config.MonitorService{
		{Name: "api", URL: api.URL, Type: config.ServiceTypeAPI, HealthCheck: "/health"},
	})

	m.runRound(context.Background())

	assert.Equal(t, DeploymentHealthy, m.metrics["api"].DeploymentHealth)

	all := m.alerts.All()
	require.Len(t, all, 2)
	assert.Contains(t, all[0].Message, "average response time 2500ms")
	assert.Contains(t, all[1].Message, "heap usage 150MB")
}

func TestOverallClassificationAcrossServices(t *testing.T) {
	up := staticServer(t)
	down := failingServer(t)

	m := newTestMonitor(t, []config.MonitorService{
		{Name: "frontend", URL: up.URL, Type: config.ServiceTypeStatic},
		{Name: "api", URL: down.URL, Type: config.ServiceTypeStatic},
	})
	m.runRound(context.Background())
	assert.Equal(t, OverallDegraded, m.Snapshot().Overall)

	both := newTestMonitor(t, []config.MonitorService{
		{Name: "frontend", URL: down.URL, Type: config.ServiceTypeStatic},
		{Name: "api", URL: down.URL, Type: config.ServiceTypeStatic},
	})
	both.runRound(context.Background())
	assert.Equal(t, OverallCritical, both.Snapshot().Overall)
}

func TestStartRendersInitialSnapshot(t *testing.T) {
	up := staticServer(t)

	dataDir := t.TempDir()
	cfg := config.DefaultMonitorConfig()
	cfg.Services = []config.MonitorService{{Name: "frontend", URL: up.URL, Type: config.ServiceTypeStatic}}
	cfg.Thresholds = config.Thresholds{}
	cfg.DataDir = dataDir
	cfg.Interval = time.Hour
	cfg.RenderInterval = time.Hour

	rendered := make(chan Snapshot, 1)
	m := New(Config{
		Monitor:  cfg,
		Store:    store.New(filepath.Join(dataDir, "deployments"), dataDir),
		OnRender: func(s Snapshot) { rendered <- s },
	})

	m.Start(context.Background())
	defer m.Stop()

	select {
	case snap := <-rendered:
		assert.Equal(t, OverallHealthy, snap.Overall)
		require.Len(t, snap.Services, 1)
		assert.Equal(t, StatusHealthy, snap.Services[0].Status)
	case <-time.After(5 * time.Second):
		t.Fatal("initial render never happened")
	}
}

func TestForcePollRunsAnExtraRound(t *testing.T) {
	up := staticServer(t)

	dataDir := t.TempDir()
	cfg := config.DefaultMonitorConfig()
	cfg.Services = []config.MonitorService{{Name: "frontend", URL: up.URL, Type: config.ServiceTypeStatic}}
	cfg.Thresholds = config.Thresholds{}
	cfg.DataDir = dataDir
	cfg.Interval = time.Hour
	cfg.RenderInterval = time.Hour

	m := New(Config{
		Monitor: cfg,
		Store:   store.New(filepath.Join(dataDir, "deployments"), dataDir),
	})

	m.Start(context.Background())
	defer m.Stop()

	m.ForcePoll()
	require.Eventually(t, func() bool {
		return m.Snapshot().Services[0].TotalRequests >= 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRenderDashboard(t *testing.T) {
	snap := Snapshot{
		GeneratedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Overall:     OverallDegraded,
		Services: []ServiceReport{
			{Name: "frontend", Status: StatusHealthy, AvgResponseMs: 120, P95ResponseMs: 300, Availability: 1.0, DeploymentHealth: DeploymentUnknown},
			{Name: "api", Status: StatusUnhealthy, Availability: 0.5, ErrorRate: 0.5, ConsecutiveFailures: 2, DeploymentHealth: DeploymentUnhealthy},
		},
		Alerts: []Alert{
			{Severity: SeverityCritical, Service: "api", Message: "down", Timestamp: time.Date(2026, 8, 25, 11, 59, 0, 0, time.UTC)},
		},
	}

	out := RenderDashboard(snap)
	assert.Contains(t, out, "Overall: DEGRADED")
	assert.Contains(t, out, "frontend")
	assert.Contains(t, out, "120ms")
	assert.Contains(t, out, "[critical] api: down")

	empty := RenderDashboard(Snapshot{Overall: OverallHealthy})
	assert.Contains(t, empty, "(none)")
}
