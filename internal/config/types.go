package config

import (
	"sort"
	"time"
)

// Environment names accepted by the deployment pipeline.
const (
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// ValidEnvironment reports whether env names a known deployment environment.
func ValidEnvironment(env string) bool {
	return env == EnvStaging || env == EnvProduction
}

// ServiceType distinguishes how a service is published and health checked.
type ServiceType string

const (
	// ServiceTypeStatic is a frontend bundle published to the static-site host.
	ServiceTypeStatic ServiceType = "static"
	// ServiceTypeAPI is a backend process published to the container-app host.
	// API services get the deep /health JSON check on top of plain reachability.
	ServiceTypeAPI ServiceType = "api"
)

// Deployment strategies understood by the traffic-routing phase.
const (
	StrategyRolling   = "rolling"
	StrategyBlueGreen = "blue-green"
)

// ServiceConfig describes one deployable service. Read-only after load.
type ServiceConfig struct {
	Enabled      bool        `json:"enabled"`
	Type         ServiceType `json:"type"`
	HealthCheck  string      `json:"healthCheck"`
	Port         int         `json:"port"`
	Dependencies []string    `json:"dependencies"`
}

// DeploymentSettings controls pipeline-wide behavior.
type DeploymentSettings struct {
	Strategy            string        `json:"strategy"`
	Timeout             time.Duration `json:"-"`
	HealthCheckRetries  int           `json:"healthCheckRetries"`
	HealthCheckInterval time.Duration `json:"-"`
}

// NotificationSettings gates the individual notification channels. Each
// channel is a log-only stub; the gates still decide whether it runs.
type NotificationSettings struct {
	Slack   bool `json:"slack"`
	Email   bool `json:"email"`
	Webhook bool `json:"webhook"`
}

// DeployConfig is the per-environment deployment configuration, loaded from
// deploy-<environment>.json with defaults for anything missing.
type DeployConfig struct {
	Environment   string
	Services      map[string]ServiceConfig
	Deployment    DeploymentSettings
	Notifications NotificationSettings

	// serviceOrder preserves the declaration order of the default services;
	// services only present in the config file are appended sorted by name so
	// the deploy phase iterates deterministically.
	serviceOrder []string
}

// ServiceOrder returns the service names in deployment order.
func (c *DeployConfig) ServiceOrder() []string {
	known := make(map[string]bool, len(c.serviceOrder))
	order := make([]string, 0, len(c.Services))
	for _, name := range c.serviceOrder {
		if _, ok := c.Services[name]; ok {
			order = append(order, name)
			known[name] = true
		}
	}

	var extra []string
	for name := range c.Services {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// MonitorService identifies one service polled by the production monitor.
type MonitorService struct {
	Name        string      `yaml:"name"`
	URL         string      `yaml:"url"`
	Type        ServiceType `yaml:"type"`
	HealthCheck string      `yaml:"healthCheck,omitempty"`
}

// Thresholds are the alerting thresholds evaluated once per polling round.
type Thresholds struct {
	ResponseTimeMs float64 `yaml:"responseTimeMs"`
	ErrorRate      float64 `yaml:"errorRate"`
	Availability   float64 `yaml:"availability"`
}

// MonitorConfig configures the production monitor, loaded from monitor.yaml
// with defaults for anything missing. Intervals are written as whole seconds
// in the file and carried as durations here.
type MonitorConfig struct {
	Interval       time.Duration
	RenderInterval time.Duration
	Services       []MonitorService
	Thresholds     Thresholds
	DataDir        string
}
