package monitor

import (
	"sort"
	"time"
)

// sampleCapacity bounds the rolling response-time buffer; the oldest sample
// is evicted when a new one would exceed it.
const sampleCapacity = 100

// ServiceStatus is plain HTTP reachability of a service.
type ServiceStatus string

const (
	StatusUnknown   ServiceStatus = "unknown"
	StatusHealthy   ServiceStatus = "healthy"
	StatusUnhealthy ServiceStatus = "unhealthy"
)

// DeploymentHealth is the API-reported application-level status, tracked as a
// separate axis from raw reachability: a service can answer 200 while its own
// health endpoint reports degradation.
type DeploymentHealth string

const (
	DeploymentUnknown   DeploymentHealth = "unknown"
	DeploymentHealthy   DeploymentHealth = "healthy"
	DeploymentDegraded  DeploymentHealth = "degraded"
	DeploymentUnhealthy DeploymentHealth = "unhealthy"
)

// ServiceMetrics accumulates rolling measurements for one monitored service.
// Created at monitor construction and mutated every polling round, only ever
// by that service's own check.
type ServiceMetrics struct {
	Status              ServiceStatus
	ResponseTimesMs     []float64
	ErrorCount          int
	TotalRequests       int
	ConsecutiveFailures int
	DeploymentHealth    DeploymentHealth
	LastCheck           time.Time
}

// NewServiceMetrics returns metrics in the unknown state.
func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{
		Status:           StatusUnknown,
		DeploymentHealth: DeploymentUnknown,
	}
}

// RecordSuccess registers one successful check with its latency.
func (m *ServiceMetrics) RecordSuccess(latency time.Duration) {
	m.TotalRequests++
	m.ConsecutiveFailures = 0
	m.Status = StatusHealthy

	m.ResponseTimesMs = append(m.ResponseTimesMs, float64(latency.Milliseconds()))
	if len(m.ResponseTimesMs) > sampleCapacity {
		m.ResponseTimesMs = m.ResponseTimesMs[len(m.ResponseTimesMs)-sampleCapacity:]
	}
}

// RecordFailure registers one failed check.
func (m *ServiceMetrics) RecordFailure() {
	m.TotalRequests++
	m.ErrorCount++
	m.ConsecutiveFailures++
	m.Status = StatusUnhealthy
}

// Availability is the fraction of historical requests that succeeded, 1.0
// when nothing has been requested yet.
func (m *ServiceMetrics) Availability() float64 {
	if m.TotalRequests == 0 {
		return 1.0
	}
	return float64(m.TotalRequests-m.ErrorCount) / float64(m.TotalRequests)
}

// ErrorRate is the fraction of historical requests that failed.
func (m *ServiceMetrics) ErrorRate() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.ErrorCount) / float64(m.TotalRequests)
}

// AverageResponseMs is the mean over the rolling sample buffer.
func (m *ServiceMetrics) AverageResponseMs() float64 {
	if len(m.ResponseTimesMs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.ResponseTimesMs {
		sum += v
	}
	return sum / float64(len(m.ResponseTimesMs))
}

// P95ResponseMs is the 95th-percentile latency over the rolling buffer,
// computed by sorting a copy and indexing floor(n*0.95).
func (m *ServiceMetrics) P95ResponseMs() float64 {
	n := len(m.ResponseTimesMs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, m.ResponseTimesMs)
	sort.Float64s(sorted)

	idx := int(float64(n) * 0.95)
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
