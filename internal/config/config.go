// Package config loads ntcore settings with viper. Values are resolved from
// built-in defaults, an optional YAML file, NTCORE_* environment variables
// and, in the CLI, command-line flags bound to the same keys.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallyu/go-ntcore/internal/crypto/curves"
	"github.com/smallyu/go-ntcore/internal/crypto/dlog"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// EnvPrefix is prepended to environment variable names: dlog.budget is read
// from NTCORE_DLOG_BUDGET.
const EnvPrefix = "NTCORE"

// Setting keys.
const (
	KeyLogLevel     = "log.level"
	KeyDlogMethod   = "dlog.method"
	KeyDlogBudget   = "dlog.budget"
	KeyCurveDefault = "curve.default"
)

// Config is the resolved settings tree.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Dlog  DlogConfig  `mapstructure:"dlog"`
	Curve CurveConfig `mapstructure:"curve"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DlogConfig struct {
	Method string `mapstructure:"method"`
	Budget int64  `mapstructure:"budget"` // 0 means unbounded
}

type CurveConfig struct {
	Default string `mapstructure:"default"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDlogMethod, string(dlog.MethodBSGS))
	v.SetDefault(KeyDlogBudget, 0)
	v.SetDefault(KeyCurveDefault, curves.Demo97Name)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path into v when path is non-empty, then unmarshals and
// validates the merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting names something that exists.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ntheory.ErrInvalidInput, "config: log.level %q", c.Log.Level)
	}
	if _, err := dlog.ParseMethod(c.Dlog.Method); err != nil {
		return errors.Wrap(err, "config: dlog.method")
	}
	if c.Dlog.Budget < 0 {
		return errors.Wrapf(ntheory.ErrInvalidInput, "config: dlog.budget %d must not be negative", c.Dlog.Budget)
	}
	if _, err := curves.Named(c.Curve.Default); err != nil {
		return errors.Wrap(err, "config: curve.default")
	}
	return nil
}

// Parameters converts the settings into the public session parameters.
func (c *Config) Parameters() ntheory.Parameters {
	return ntheory.Parameters{
		Curve:      c.Curve.Default,
		DlogBudget: c.Dlog.Budget,
		Method:     c.Dlog.Method,
	}
}

// DlogOptions returns the solver options implied by params.
func DlogOptions(params ntheory.Parameters, logger *zap.Logger) []dlog.Option {
	opts := []dlog.Option{dlog.WithLogger(logger)}
	if params.DlogBudget > 0 {
		opts = append(opts, dlog.WithBudget(params.DlogBudget))
	}
	return opts
}

// NewLogger builds a zap logger at the configured level. The debug level
// uses the development encoder; everything else logs JSON.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrapf(ntheory.ErrInvalidInput, "config: log.level %q", c.Log.Level)
	}

	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
