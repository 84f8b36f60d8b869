package providers

import (
	"fmt"
	"path/filepath"
	"ptd/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PTD_LOG_LEVEL")
	viper.BindEnv("engine.branchId", "PTD_BRANCH_ID")
	viper.BindEnv("engine.pollInterval", "PTD_POLL_INTERVAL")
	viper.BindEnv("engine.displayOnly", "PTD_DISPLAY_ONLY")
	viper.BindEnv("backend.baseUrl", "PTD_BACKEND_URL")
	viper.BindEnv("backend.apiKey", "PTD_BACKEND_API_KEY")
	viper.BindEnv("cache.enabled", "PTD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PTD_CACHE_SIZE")

	// Engine cadence and the staleness-policy tunables are business-tuned;
	// the defaults here match what operations settled on.
	viper.SetDefault("engine.tickInterval", "1s")
	viper.SetDefault("engine.pollInterval", "5s")
	viper.SetDefault("reconcile.pinCooldown", "10s")
	viper.SetDefault("reconcile.pinRetention", "20s")
	viper.SetDefault("reconcile.dropTolerance", "30s")
	viper.SetDefault("reconcile.largeDropThreshold", "120s")
	viper.SetDefault("alerts.soundDuration", "10s")
	viper.SetDefault("backend.timeout", "10s")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PlayTimerDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
