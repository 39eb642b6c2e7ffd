package deploy

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"questctl/pkg/logging"
)

// Service deployment outcomes recorded on the run.
const (
	ServiceDeployed = "deployed"
	ServiceFailed   = "failed"
)

// ServiceRecord captures the outcome of deploying one service. Rollback
// consults these records to decide what to unwind.
type ServiceRecord struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// LogEntry is one line of the run's append-only log history.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Run is the mutable state of one orchestrator execution. It is created at
// process start, mutated only by the pipeline's single control flow, and
// terminates by writing a success or failure record.
type Run struct {
	ID          string
	Environment string
	Phase       string
	CurrentStep int
	TotalSteps  int

	// Services maps service name to its deployment record; DeployOrder
	// remembers the order services were attempted so rollback can walk it
	// in reverse.
	Services    map[string]ServiceRecord
	DeployOrder []string

	Logs      []LogEntry
	StartTime time.Time
}

// NewRun creates a run with a fresh time-prefixed id.
func NewRun(environment string) *Run {
	now := time.Now()
	id := fmt.Sprintf("deploy-%s-%s", now.Format("20060102-150405"), uuid.NewString()[:8])
	return &Run{
		ID:          id,
		Environment: environment,
		Services:    make(map[string]ServiceRecord),
		StartTime:   now,
	}
}

func (r *Run) appendLog(level, message string, data map[string]any) {
	r.Logs = append(r.Logs, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Data:      data,
	})
}

// Info appends an info entry and mirrors it to the process log.
func (r *Run) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.appendLog("info", msg, nil)
	logging.Info("Deploy", "%s", msg)
}

// Warn appends a warning entry and mirrors it to the process log.
func (r *Run) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.appendLog("warn", msg, nil)
	logging.Warn("Deploy", "%s", msg)
}

// Error appends an error entry and mirrors it to the process log.
func (r *Run) Error(err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	data := map[string]any(nil)
	if err != nil {
		data = map[string]any{"error": err.Error()}
	}
	r.appendLog("error", msg, data)
	logging.Error("Deploy", err, "%s", msg)
}

// RecordDeployed marks a service as successfully deployed.
func (r *Run) RecordDeployed(service, version string) {
	r.Services[service] = ServiceRecord{
		Status:    ServiceDeployed,
		Timestamp: time.Now(),
		Version:   version,
	}
	r.DeployOrder = append(r.DeployOrder, service)
}

// RecordFailed marks a service as failed to deploy.
func (r *Run) RecordFailed(service string, err error) {
	r.Services[service] = ServiceRecord{
		Status:    ServiceFailed,
		Timestamp: time.Now(),
		Error:     err.Error(),
	}
	r.DeployOrder = append(r.DeployOrder, service)
}

// Record is the durable JSON document persisted at the end of a run.
type Record struct {
	ID              string                   `json:"id"`
	Environment     string                   `json:"environment"`
	Status          string                   `json:"status"`
	Phase           string                   `json:"phase"`
	Error           string                   `json:"error,omitempty"`
	Services        map[string]ServiceRecord `json:"services"`
	StartTime       time.Time                `json:"startTime"`
	EndTime         time.Time                `json:"endTime"`
	DurationSeconds float64                  `json:"durationSeconds"`
	Logs            []LogEntry               `json:"logs"`
}

// BuildRecord projects the run into its durable record.
func (r *Run) BuildRecord(status, errMsg string) Record {
	end := time.Now()
	return Record{
		ID:              r.ID,
		Environment:     r.Environment,
		Status:          status,
		Phase:           r.Phase,
		Error:           errMsg,
		Services:        r.Services,
		StartTime:       r.StartTime,
		EndTime:         end,
		DurationSeconds: end.Sub(r.StartTime).Seconds(),
		Logs:            r.Logs,
	}
}
