package config

import "time"

// Default service names. The quest tracker ships as a static frontend plus an
// Express-style API backend; anything beyond these two comes from the config
// file.
const (
	ServiceFrontend = "frontend"
	ServiceBackend  = "backend"
)

// DefaultDeployConfig returns the deployment defaults for an environment.
// These are the values used when deploy-<environment>.json is missing
// entirely, and the base that a present file is merged onto.
func DefaultDeployConfig(environment string) DeployConfig {
	return DeployConfig{
		Environment: environment,
		Services: map[string]ServiceConfig{
			ServiceFrontend: {
				Enabled:      true,
				Type:         ServiceTypeStatic,
				HealthCheck:  "/",
				Port:         3000,
				Dependencies: nil,
			},
			ServiceBackend: {
				Enabled:      true,
				Type:         ServiceTypeAPI,
				HealthCheck:  "/health",
				Port:         3001,
				Dependencies: nil,
			},
		},
		Deployment: DeploymentSettings{
			Strategy:            StrategyRolling,
			Timeout:             5 * time.Minute,
			HealthCheckRetries:  5,
			HealthCheckInterval: 10 * time.Second,
		},
		Notifications: NotificationSettings{
			Slack:   false,
			Email:   false,
			Webhook: false,
		},
		serviceOrder: []string{ServiceFrontend, ServiceBackend},
	}
}

// DefaultMonitorConfig returns the monitor defaults: poll every 30s, redraw
// the dashboard every 10s, and watch the production quest tracker.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:       30 * time.Second,
		RenderInterval: 10 * time.Second,
		Services: []MonitorService{
			{
				Name: "quest-tracker-frontend",
				URL:  "https://quest-tracker.netlify.app",
				Type: ServiceTypeStatic,
			},
			{
				Name:        "quest-tracker-api",
				URL:         "https://quest-tracker-api-production.up.railway.app",
				Type:        ServiceTypeAPI,
				HealthCheck: "/health",
			},
		},
		Thresholds: Thresholds{
			ResponseTimeMs: 2000,
			ErrorRate:      0.05,
			Availability:   0.95,
		},
		DataDir: "monitoring",
	}
}
