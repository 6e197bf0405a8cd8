package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/lehman-cli/internal/lehman"
)

// Config holds the full application configuration.
type Config struct {
	Calc   CalcConfig   `yaml:"calc" mapstructure:"calc"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CalcConfig configures fee calculation defaults.
type CalcConfig struct {
	Variant      string `yaml:"variant" mapstructure:"variant"`
	ScheduleFile string `yaml:"schedule_file" mapstructure:"schedule_file"`
}

// OutputConfig configures how results are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchConfig configures deal-list processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{"table", "json", "csv", "xlsx"}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEHMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("calc.variant", string(lehman.Single))
	v.SetDefault("calc.schedule_file", "")
	v.SetDefault("output.format", "table")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []string

	if _, err := lehman.ParseVariant(c.Calc.Variant); err != nil {
		errs = append(errs, fmt.Sprintf("calc.variant must be single or double (got %q)", c.Calc.Variant))
	}
	if !validOutputFormat(c.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format must be one of %s (got %q)", strings.Join(OutputFormats, ", "), c.Output.Format))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, "batch.concurrency must be at least 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validOutputFormat(f string) bool {
	for _, ok := range OutputFormats {
		if f == ok {
			return true
		}
	}
	return false
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
