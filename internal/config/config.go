// Package config layers run settings: command-line flags over
// TANKPLANNER_* environment variables over an optional YAML file over
// defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
)

// EnvPrefix prefixes every environment variable read by the planner.
const EnvPrefix = "TANKPLANNER"

// Config is the resolved run configuration.
type Config struct {
	Variant     string `mapstructure:"variant"`
	Slots       int    `mapstructure:"slots"`
	InitialFuel string `mapstructure:"initial_fuel"`
	// CloseBound and NormalizeRate are "auto", "on" or "off"; auto keeps
	// the variant default.
	CloseBound    string `mapstructure:"close_bound"`
	NormalizeRate string `mapstructure:"normalize_rate"`

	Engine    string        `mapstructure:"engine"`
	NodeLimit int           `mapstructure:"node_limit"`
	TimeLimit time.Duration `mapstructure:"time_limit"`
	CBCPath   string        `mapstructure:"cbc_path"`

	Addr      string `mapstructure:"addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"variant":        "variant",
	"slots":          "slots",
	"initial-fuel":   "initial_fuel",
	"close-bound":    "close_bound",
	"normalize-rate": "normalize_rate",
	"engine":         "engine",
	"node-limit":     "node_limit",
	"time-limit":     "time_limit",
	"cbc-path":       "cbc_path",
	"addr":           "addr",
	"log-level":      "log_level",
	"log-format":     "log_format",
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("variant", string(planner.SingleSlot))
	v.SetDefault("slots", 0)
	v.SetDefault("initial_fuel", "")
	v.SetDefault("close_bound", "auto")
	v.SetDefault("normalize_rate", "auto")
	v.SetDefault("engine", engine.DefaultEngine)
	v.SetDefault("node_limit", engine.DefaultNodeLimit)
	v.SetDefault("time_limit", time.Duration(0))
	v.SetDefault("cbc_path", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the known flags present in fs to their keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Load reads the optional config file and decodes the layered settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// PlannerOptions converts the configuration into planner options.
func (c *Config) PlannerOptions() (planner.Options, error) {
	variant, err := planner.ParseVariant(c.Variant)
	if err != nil {
		return planner.Options{}, err
	}
	closeBound, err := parseToggle("close_bound", c.CloseBound)
	if err != nil {
		return planner.Options{}, err
	}
	normalize, err := parseToggle("normalize_rate", c.NormalizeRate)
	if err != nil {
		return planner.Options{}, err
	}
	return planner.Options{
		Variant:                 variant,
		Slots:                   c.Slots,
		InitialFuel:             c.InitialFuel,
		LifetimeCloseBound:      closeBound,
		NormalizeTransitionRate: normalize,
		Engine:                  c.Engine,
		EngineOptions: engine.Options{
			NodeLimit: c.NodeLimit,
			TimeLimit: c.TimeLimit,
			CBCPath:   c.CBCPath,
		},
	}, nil
}

func parseToggle(key, value string) (*bool, error) {
	switch strings.ToLower(value) {
	case "", "auto":
		return nil, nil
	case "on", "true", "yes":
		on := true
		return &on, nil
	case "off", "false", "no":
		off := false
		return &off, nil
	}
	return nil, fmt.Errorf("%s: want auto, on or off, got %q", key, value)
}
