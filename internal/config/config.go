package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Stub    StubConfig    `mapstructure:"stub"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// BackendConfig points the client at the segmentation service.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// StubConfig configures the local stub service.
type StubConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"min=1"`
}

// Addr returns the listen address for the stub service.
func (c StubConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// File is where the TUI client writes its log; the interactive
	// program owns the terminal, so stderr is not an option there.
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type UIConfig struct {
	// SplitRatio is the image panel's percentage width on a fresh
	// workspace mount.
	SplitRatio int `mapstructure:"split_ratio" validate:"min=20,max=80"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	// Config file not found: defaults and env vars apply.

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Backend
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.timeout", "120s")

	// Stub service
	v.SetDefault("stub.host", "0.0.0.0")
	v.SetDefault("stub.port", 5000)
	v.SetDefault("stub.read_timeout", "30s")
	v.SetDefault("stub.write_timeout", "30s")
	v.SetDefault("stub.shutdown_timeout", "10s")
	v.SetDefault("stub.max_upload_bytes", 10<<20)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "segstudio.log")
	v.SetDefault("logging.format", "json")

	// UI
	v.SetDefault("ui.split_ratio", 66)
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("backend.base_url", "SEGSTUDIO_BACKEND_URL")
	v.BindEnv("stub.host", "SEGSTUDIO_STUB_HOST")
	v.BindEnv("stub.port", "SEGSTUDIO_STUB_PORT")
	v.BindEnv("logging.level", "SEGSTUDIO_LOG_LEVEL")
	v.BindEnv("logging.file", "SEGSTUDIO_LOG_FILE")
}
