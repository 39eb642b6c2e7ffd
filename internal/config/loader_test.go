package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDeployConfigDefaults(t *testing.T) {
	cfg, err := LoadDeployConfig(t.TempDir(), EnvStaging)
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.Environment)
	assert.Equal(t, StrategyRolling, cfg.Deployment.Strategy)
	assert.Equal(t, 5, cfg.Deployment.HealthCheckRetries)
	assert.Equal(t, 10*time.Second, cfg.Deployment.HealthCheckInterval)
	assert.Equal(t, 5*time.Minute, cfg.Deployment.Timeout)

	frontend := cfg.Services[ServiceFrontend]
	assert.True(t, frontend.Enabled)
	assert.Equal(t, ServiceTypeStatic, frontend.Type)

	backend := cfg.Services[ServiceBackend]
	assert.Equal(t, "/health", backend.HealthCheck)
	assert.Equal(t, 3001, backend.Port)
}

func TestLoadDeployConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy-production.json", `{
		"services": {
			"frontend": {"enabled": false},
			"backend": {"port": 8080}
		},
		"deployment": {"strategy": "blue-green", "healthCheckRetries": 3, "healthCheckInterval": 2},
		"notifications": {"slack": true}
	}`)

	cfg, err := LoadDeployConfig(dir, EnvProduction)
	require.NoError(t, err)

	assert.False(t, cfg.Services[ServiceFrontend].Enabled)
	// Unset fields keep their defaults.
	assert.Equal(t, ServiceTypeStatic, cfg.Services[ServiceFrontend].Type)
	assert.Equal(t, 8080, cfg.Services[ServiceBackend].Port)
	assert.Equal(t, "/health", cfg.Services[ServiceBackend].HealthCheck)

	assert.Equal(t, StrategyBlueGreen, cfg.Deployment.Strategy)
	assert.Equal(t, 3, cfg.Deployment.HealthCheckRetries)
	assert.Equal(t, 2*time.Second, cfg.Deployment.HealthCheckInterval)

	assert.True(t, cfg.Notifications.Slack)
	assert.False(t, cfg.Notifications.Webhook)
}

func TestLoadDeployConfigUnknownService(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy-staging.json", `{
		"services": {
			"worker": {"port": 4000, "dependencies": ["backend"]}
		}
	}`)

	cfg, err := LoadDeployConfig(dir, EnvStaging)
	require.NoError(t, err)

	worker, ok := cfg.Services["worker"]
	require.True(t, ok)
	assert.True(t, worker.Enabled)
	assert.Equal(t, ServiceTypeAPI, worker.Type)
	assert.Equal(t, []string{"backend"}, worker.Dependencies)

	// Default services deploy first, file-only services follow sorted.
	assert.Equal(t, []string{ServiceFrontend, ServiceBackend, "worker"}, cfg.ServiceOrder())
}

func TestLoadDeployConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy-staging.json", `{not json`)

	_, err := LoadDeployConfig(dir, EnvStaging)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config")
}

func TestValidEnvironment(t *testing.T) {
	assert.True(t, ValidEnvironment("staging"))
	assert.True(t, ValidEnvironment("production"))
	assert.False(t, ValidEnvironment("qa"))
	assert.False(t, ValidEnvironment(""))
}

func TestLoadMonitorConfigDefaults(t *testing.T) {
	cfg, err := LoadMonitorConfig(filepath.Join(t.TempDir(), "monitor.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.RenderInterval)
	assert.Len(t, cfg.Services, 2)
	assert.Equal(t, 0.05, cfg.Thresholds.ErrorRate)
	assert.Equal(t, 0.95, cfg.Thresholds.Availability)
}

func TestLoadMonitorConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "monitor.yaml", `
intervalSeconds: 15
services:
  - name: api
    url: http://localhost:3001
    type: api
thresholds:
  errorRate: 0.1
`)

	cfg, err := LoadMonitorConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Interval)
	require.Len(t, cfg.Services, 1)
	assert.Equal(t, "api", cfg.Services[0].Name)
	// API services get the default deep health path when omitted.
	assert.Equal(t, "/health", cfg.Services[0].HealthCheck)
	assert.Equal(t, 0.1, cfg.Thresholds.ErrorRate)
	// Untouched thresholds keep defaults.
	assert.Equal(t, float64(2000), cfg.Thresholds.ResponseTimeMs)
}

func TestLoadMonitorConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "monitor.yaml", "services: {not: [valid")

	_, err := LoadMonitorConfig(path)
	require.Error(t, err)
}
