package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type EngineConfig struct {
	BranchID     string        `yaml:"branchId" validate:"required"`
	TickInterval time.Duration `yaml:"tickInterval" validate:"required|min:1"`
	PollInterval time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	DisplayOnly  bool          `yaml:"displayOnly"`
}

// ReconcileConfig carries the staleness-policy tunables. The values are
// business-tuned rather than derived, so they ship as configuration.
type ReconcileConfig struct {
	PinCooldown  time.Duration `yaml:"pinCooldown" validate:"required|min:1"`
	PinRetention time.Duration `yaml:"pinRetention" validate:"required|min:1"`
	// DropTolerance is how far remaining time may drop inside the pin
	// cooldown before an unstamped update is treated as stale.
	DropTolerance time.Duration `yaml:"dropTolerance" validate:"required|min:1"`
	// LargeDropThreshold applies between cooldown expiry and pin retention:
	// drops beyond it are still rejected as suspicious.
	LargeDropThreshold time.Duration `yaml:"largeDropThreshold" validate:"required|min:1"`
}

type AlertsConfig struct {
	// SoundDuration bounds non-looping alert sounds.
	SoundDuration time.Duration `yaml:"soundDuration" validate:"required|min:1"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Engine    EngineConfig    `yaml:"engine"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Backend   BackendConfig   `yaml:"backend"`
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
