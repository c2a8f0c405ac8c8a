package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"jobShop/internal/jobshop"
	"jobShop/internal/sa"
)

// EnvPrefix prefixes environment overrides, e.g. JSSP_TEMPERATURE_UPDATE.
const EnvPrefix = "JSSP"

// Config is the resolved configuration of a run.
type Config struct {
	Instance  string
	Format    jobshop.Format
	Seed      int64
	Annealing sa.Config

	Debug     bool
	LogFormat string
	LogFile   string

	Chart             bool
	ChartImprovements bool
	ChartWidth        int
	Color             bool
	Table             bool

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// definition is the raw shape of the configuration sources.
type definition struct {
	Instance string `mapstructure:"instance"`
	Format   string `mapstructure:"format"`
	Seed     int64  `mapstructure:"seed"`

	TemperatureUpdate  string  `mapstructure:"temperature_update"`
	InitialTemperature float64 `mapstructure:"initial_temperature"`
	IterationsNumber   int     `mapstructure:"iterations_number"`
	DecayConstant      float64 `mapstructure:"decay_constant"`
	GradualConstantA   float64 `mapstructure:"gradual_constant_a"`
	GradualConstantN   float64 `mapstructure:"gradual_constant_n"`
	Verify             bool    `mapstructure:"verify"`

	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	Chart             bool `mapstructure:"chart"`
	ChartImprovements bool `mapstructure:"chart_improvements"`
	ChartWidth        int  `mapstructure:"chart_width"`
	Color             bool `mapstructure:"color"`
	Table             bool `mapstructure:"table"`
}

// Loader reads defaults, an optional YAML file, JSSP_* environment
// variables and any flags bound to its viper instance, in increasing order
// of precedence.
type Loader struct {
	v          *viper.Viper
	configFile string
}

type LoaderOption func(*Loader)

// WithConfigFile sets an explicit configuration file. A missing explicit
// file is an error; the implicit ./jssp.yaml is optional.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.configFile = path
	}
}

func NewLoader(v *viper.Viper, opts ...LoaderOption) *Loader {
	l := &Loader{v: v}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the configuration. Unknown temperature modes and instance
// formats fail here, before any search starts.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", l.configFile, err)
		}
	} else {
		l.v.SetConfigName("jssp")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var def definition
	if err := l.v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg, err := build(def)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = l.v.ConfigFileUsed()
	return cfg, nil
}

func (l *Loader) setDefaults() {
	d := sa.DefaultConfig()
	l.v.SetDefault("instance", "")
	l.v.SetDefault("format", jobshop.FormatAuto.String())
	l.v.SetDefault("seed", 0)
	l.v.SetDefault("temperature_update", d.Mode.String())
	l.v.SetDefault("initial_temperature", d.InitialTemperature)
	l.v.SetDefault("iterations_number", d.Iterations)
	l.v.SetDefault("decay_constant", d.DecayConstant)
	l.v.SetDefault("gradual_constant_a", d.GradualA)
	l.v.SetDefault("gradual_constant_n", d.GradualN)
	l.v.SetDefault("verify", false)
	l.v.SetDefault("debug", false)
	l.v.SetDefault("log_format", "text")
	l.v.SetDefault("log_file", "")
	l.v.SetDefault("chart", false)
	l.v.SetDefault("chart_improvements", false)
	l.v.SetDefault("chart_width", 100)
	l.v.SetDefault("color", false)
	l.v.SetDefault("table", false)
}

func build(def definition) (*Config, error) {
	mode, err := sa.ParseMode(def.TemperatureUpdate)
	if err != nil {
		return nil, err
	}
	format, err := jobshop.ParseFormat(def.Format)
	if err != nil {
		return nil, err
	}
	switch def.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q; available: text, json", def.LogFormat)
	}

	cfg := &Config{
		Instance: def.Instance,
		Format:   format,
		Seed:     def.Seed,
		Annealing: sa.Config{
			Mode:               mode,
			InitialTemperature: def.InitialTemperature,
			Iterations:         def.IterationsNumber,
			DecayConstant:      def.DecayConstant,
			GradualA:           def.GradualConstantA,
			GradualN:           def.GradualConstantN,
			Verify:             def.Verify,
		},
		Debug:             def.Debug,
		LogFormat:         def.LogFormat,
		LogFile:           def.LogFile,
		Chart:             def.Chart,
		ChartImprovements: def.ChartImprovements,
		ChartWidth:        def.ChartWidth,
		Color:             def.Color,
		Table:             def.Table,
	}
	if err := cfg.Annealing.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
