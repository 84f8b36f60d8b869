package providers

import (
	"testing"
	"time"

	"ptd/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Engine: structures.EngineConfig{
			BranchID:     "branch-1",
			TickInterval: time.Second,
			PollInterval: 5 * time.Second,
		},
		Reconcile: structures.ReconcileConfig{
			PinCooldown:        10 * time.Second,
			PinRetention:       20 * time.Second,
			DropTolerance:      30 * time.Second,
			LargeDropThreshold: 120 * time.Second,
		},
		Alerts: structures.AlertsConfig{
			SoundDuration: 10 * time.Second,
		},
		Backend: structures.BackendConfig{
			BaseURL: "http://backend.local",
			Timeout: 10 * time.Second,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyBranch(t *testing.T) {
	c := validConfig()
	c.Engine.BranchID = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyBackendURL(t *testing.T) {
	c := validConfig()
	c.Backend.BaseURL = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RetentionShorterThanCooldown(t *testing.T) {
	c := validConfig()
	c.Reconcile.PinRetention = 5 * time.Second
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
