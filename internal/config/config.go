package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Focus    FocusConfig    `mapstructure:"focus"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// FocusConfig holds the classifier thresholds. Defaults match the stock
// heuristics; every value can be overridden from the config file or via
// MINDMIRROR_FOCUS_* environment variables. The optional profile name
// selects a preset from the profiles file on top of these values.
type FocusConfig struct {
	FlowKeystrokes          float64 `mapstructure:"flow_keystrokes"`
	FlowSecondaryKeystrokes float64 `mapstructure:"flow_secondary_keystrokes"`
	FlowPointerCeiling      float64 `mapstructure:"flow_pointer_ceiling"`
	IdleMinutes             float64 `mapstructure:"idle_minutes"`
	FatigueMinutes          float64 `mapstructure:"fatigue_minutes"`
	BurnoutHours            float64 `mapstructure:"burnout_hours"`
	DistractionSwitches     int     `mapstructure:"distraction_switches"`
	ClassifySeconds         float64 `mapstructure:"classify_seconds"`
	DecayFactor             float64 `mapstructure:"decay_factor"`
	DwellWeight             float64 `mapstructure:"dwell_weight"`
	Profile                 string  `mapstructure:"profile"`
	ProfilesPath            string  `mapstructure:"profiles_path"`
}

// Engine converts the configured thresholds into an engine.Config.
func (f FocusConfig) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.FlowKeystrokes = f.FlowKeystrokes
	cfg.FlowSecondaryKeystrokes = f.FlowSecondaryKeystrokes
	cfg.FlowPointerCeiling = f.FlowPointerCeiling
	cfg.IdleAfter = time.Duration(f.IdleMinutes * float64(time.Minute))
	cfg.FatigueAfter = time.Duration(f.FatigueMinutes * float64(time.Minute))
	cfg.BurnoutAfter = time.Duration(f.BurnoutHours * float64(time.Hour))
	cfg.DistractionSwitches = f.DistractionSwitches
	cfg.ClassifyInterval = time.Duration(f.ClassifySeconds * float64(time.Second))
	cfg.DecayFactor = f.DecayFactor
	cfg.DwellWeight = f.DwellWeight
	return cfg
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.session_secret", "")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "mindmirror-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Classifier defaults, same values as engine.DefaultConfig
	v.SetDefault("focus.flow_keystrokes", 60)
	v.SetDefault("focus.flow_secondary_keystrokes", 30)
	v.SetDefault("focus.flow_pointer_ceiling", 300)
	v.SetDefault("focus.idle_minutes", 5)
	v.SetDefault("focus.fatigue_minutes", 90)
	v.SetDefault("focus.burnout_hours", 4)
	v.SetDefault("focus.distraction_switches", 3)
	v.SetDefault("focus.classify_seconds", 2)
	v.SetDefault("focus.decay_factor", 0.9)
	v.SetDefault("focus.dwell_weight", 2)
	v.SetDefault("focus.profile", "")
	v.SetDefault("focus.profiles_path", "")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("MINDMIRROR") // e.g., MINDMIRROR_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
