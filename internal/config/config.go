// Package config loads the formwizard CLI configuration using Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. FORMWIZARD_ENDPOINT.
const EnvPrefix = "FORMWIZARD"

// Config holds the CLI settings.
type Config struct {
	Definitions string        `mapstructure:"definitions" yaml:"definitions"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	Token       string        `mapstructure:"token" yaml:"token"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Templates   string        `mapstructure:"templates" yaml:"templates"`
	Output      string        `mapstructure:"output" yaml:"output"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string        `mapstructure:"log_format" yaml:"log_format"`
}

var keys = []string{"definitions", "endpoint", "token", "timeout", "templates", "output", "log_level", "log_format"}

// New returns a Viper instance carrying the defaults and environment
// bindings. Callers bind flags on top before calling Load.
func New() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("definitions", "wizards")
	v.SetDefault("endpoint", "")
	v.SetDefault("token", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("templates", "")
	v.SetDefault("output", "pretty")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("config: binding %s env: %w", key, err)
		}
	}
	return v, nil
}

// Load reads path (or ./formwizard.yml when path is empty and the file
// exists) into v and decodes the result. Precedence: flags bound on v, then
// environment, then the config file, then defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		var err error
		if v, err = New(); err != nil {
			return nil, err
		}
	}
	if path == "" && fileExists(ProjectPath()) {
		path = ProjectPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if strings.TrimSpace(cfg.Definitions) == "" {
		return nil, fmt.Errorf("config: definitions directory is required")
	}
	return &cfg, nil
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "formwizard.yml"
}

// Logger builds a zap logger for the configured level and format. Logs go
// to stderr so command output stays parseable.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	zcfg := zap.NewProductionConfig()
	if c.LogFormat != "json" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
