package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File-level structs use pointers so that an absent field can be told apart
// from a zero value and left at its default during the merge.

type deployConfigFile struct {
	Services      map[string]serviceConfigFile `json:"services"`
	Deployment    *deploymentSettingsFile      `json:"deployment"`
	Notifications *notificationSettingsFile    `json:"notifications"`
}

type serviceConfigFile struct {
	Enabled      *bool        `json:"enabled"`
	Type         *ServiceType `json:"type"`
	HealthCheck  *string      `json:"healthCheck"`
	Port         *int         `json:"port"`
	Dependencies []string     `json:"dependencies"`
}

type deploymentSettingsFile struct {
	Strategy            *string `json:"strategy"`
	TimeoutSeconds      *int    `json:"timeout"`
	HealthCheckRetries  *int    `json:"healthCheckRetries"`
	HealthCheckInterval *int    `json:"healthCheckInterval"`
}

type notificationSettingsFile struct {
	Slack   *bool `json:"slack"`
	Email   *bool `json:"email"`
	Webhook *bool `json:"webhook"`
}

type monitorConfigFile struct {
	IntervalSeconds       int              `yaml:"intervalSeconds"`
	RenderIntervalSeconds int              `yaml:"renderIntervalSeconds"`
	Services              []MonitorService `yaml:"services"`
	Thresholds            Thresholds       `yaml:"thresholds"`
	DataDir               string           `yaml:"dataDir"`
}

// DeployConfigPath returns the expected config file path for an environment.
func DeployConfigPath(dir, environment string) string {
	return filepath.Join(dir, fmt.Sprintf("deploy-%s.json", environment))
}

// LoadDeployConfig loads the deployment configuration for an environment by
// layering deploy-<environment>.json (optional) over the built-in defaults.
// A missing file is not an error; a malformed one is.
func LoadDeployConfig(dir, environment string) (DeployConfig, error) {
	cfg := DefaultDeployConfig(environment)

	path := DeployConfigPath(dir, environment)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return DeployConfig{}, fmt.Errorf("error reading config %s: %w", path, err)
	}

	var file deployConfigFile
	if err := json.Unmarshal(data, &file); err != nil {
		return DeployConfig{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	return mergeDeployConfig(cfg, file), nil
}

// mergeDeployConfig merges 'overlay' (the parsed file) into 'base' (defaults).
func mergeDeployConfig(base DeployConfig, overlay deployConfigFile) DeployConfig {
	merged := base

	merged.Services = make(map[string]ServiceConfig, len(base.Services))
	for name, svc := range base.Services {
		merged.Services[name] = svc
	}
	for name, file := range overlay.Services {
		svc, ok := merged.Services[name]
		if !ok {
			// Unknown services start from sensible API-shaped defaults.
			svc = ServiceConfig{Enabled: true, Type: ServiceTypeAPI, HealthCheck: "/health"}
		}
		if file.Enabled != nil {
			svc.Enabled = *file.Enabled
		}
		if file.Type != nil {
			svc.Type = *file.Type
		}
		if file.HealthCheck != nil {
			svc.HealthCheck = *file.HealthCheck
		}
		if file.Port != nil {
			svc.Port = *file.Port
		}
		if file.Dependencies != nil {
			svc.Dependencies = file.Dependencies
		}
		merged.Services[name] = svc
	}

	if d := overlay.Deployment; d != nil {
		if d.Strategy != nil {
			merged.Deployment.Strategy = *d.Strategy
		}
		if d.TimeoutSeconds != nil {
			merged.Deployment.Timeout = time.Duration(*d.TimeoutSeconds) * time.Second
		}
		if d.HealthCheckRetries != nil {
			merged.Deployment.HealthCheckRetries = *d.HealthCheckRetries
		}
		if d.HealthCheckInterval != nil {
			merged.Deployment.HealthCheckInterval = time.Duration(*d.HealthCheckInterval) * time.Second
		}
	}

	if n := overlay.Notifications; n != nil {
		if n.Slack != nil {
			merged.Notifications.Slack = *n.Slack
		}
		if n.Email != nil {
			merged.Notifications.Email = *n.Email
		}
		if n.Webhook != nil {
			merged.Notifications.Webhook = *n.Webhook
		}
	}

	return merged
}

// LoadMonitorConfig loads the monitor configuration from a YAML file, falling
// back to defaults when the file is missing. Malformed config is the one
// failure allowed to stop the monitor before it starts.
func LoadMonitorConfig(path string) (MonitorConfig, error) {
	cfg := DefaultMonitorConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return MonitorConfig{}, fmt.Errorf("error reading monitor config %s: %w", path, err)
	}

	var file monitorConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return MonitorConfig{}, fmt.Errorf("error parsing monitor config %s: %w", path, err)
	}

	if file.IntervalSeconds > 0 {
		cfg.Interval = time.Duration(file.IntervalSeconds) * time.Second
	}
	if file.RenderIntervalSeconds > 0 {
		cfg.RenderInterval = time.Duration(file.RenderIntervalSeconds) * time.Second
	}
	if len(file.Services) > 0 {
		cfg.Services = file.Services
	}
	if file.Thresholds.ResponseTimeMs > 0 {
		cfg.Thresholds.ResponseTimeMs = file.Thresholds.ResponseTimeMs
	}
	if file.Thresholds.ErrorRate > 0 {
		cfg.Thresholds.ErrorRate = file.Thresholds.ErrorRate
	}
	if file.Thresholds.Availability > 0 {
		cfg.Thresholds.Availability = file.Thresholds.Availability
	}
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}

	for i := range cfg.Services {
		if cfg.Services[i].Type == ServiceTypeAPI && cfg.Services[i].HealthCheck == "" {
			cfg.Services[i].HealthCheck = "/health"
		}
	}

	return cfg, nil
}
