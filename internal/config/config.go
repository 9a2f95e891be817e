// Package config loads demo configuration from a YAML file, BOOTNAV_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g.
// BOOTNAV_INITIAL_NAVIGATION or BOOTNAV_LOG_LEVEL.
const EnvPrefix = "BOOTNAV"

// Config is the demo configuration.
//
// Viper folds map keys to lower case, so session keys and resolver keys
// reach guards and navigation data in lower case.
type Config struct {
	InitialNavigation bootnav.TimingPolicy `mapstructure:"initial_navigation"`
	Log               LogConfig            `mapstructure:"log"`
	Trace             TraceConfig          `mapstructure:"trace"`
	Telemetry         TelemetryConfig      `mapstructure:"telemetry"`
	Location          LocationConfig       `mapstructure:"location"`
	Session           map[string]any       `mapstructure:"session"`
	Routes            []RouteConfig        `mapstructure:"routes"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TraceConfig controls where the lifecycle trace is written. An empty Dir
// disables persistence; an empty DOT disables the Graphviz export.
type TraceConfig struct {
	Dir    string `mapstructure:"dir"`
	Name   string `mapstructure:"name"`
	Format string `mapstructure:"format"`
	DOT    string `mapstructure:"dot"`
}

// TelemetryConfig controls OpenTelemetry export. An empty Endpoint keeps
// the noop tracer.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// LocationConfig describes the simulated platform location.
type LocationConfig struct {
	// Initial is the path the application starts at.
	Initial string `mapstructure:"initial"`
	// ReadyDelay postpones the location gate, simulating async platform setup.
	ReadyDelay time.Duration `mapstructure:"ready_delay"`
	// Script is replayed after bootstrap; see extensibility.LocationFeed.
	Script   []string      `mapstructure:"script"`
	Interval time.Duration `mapstructure:"interval"`
}

// RouteConfig declares one route.
type RouteConfig struct {
	Path      string `mapstructure:"path"`
	Component string `mapstructure:"component"`
	// Guards are "key op value" expressions over the session.
	Guards []string `mapstructure:"guards"`
	// Resolve maps data keys to static values.
	Resolve map[string]string `mapstructure:"resolve"`
	// Delay is applied to every resolver of the route.
	Delay   time.Duration `mapstructure:"delay"`
	Preload bool          `mapstructure:"preload"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		InitialNavigation: bootnav.DefaultPolicy,
		Log: LogConfig{
			Level:  logging.LevelInfo,
			Format: logging.FormatText,
		},
		Trace: TraceConfig{
			Name:   "bootnav",
			Format: "yaml",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "bootnav-demo",
		},
		Location: LocationConfig{
			Initial:  "/",
			Interval: 50 * time.Millisecond,
		},
		Routes: []RouteConfig{
			{Path: "/", Component: "home"},
			{Path: "/**", Component: "not-found"},
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("initial_navigation", string(d.InitialNavigation))
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("trace.dir", d.Trace.Dir)
	v.SetDefault("trace.name", d.Trace.Name)
	v.SetDefault("trace.format", d.Trace.Format)
	v.SetDefault("trace.dot", d.Trace.DOT)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("location.initial", d.Location.Initial)
	v.SetDefault("location.ready_delay", d.Location.ReadyDelay)
	v.SetDefault("location.script", d.Location.Script)
	v.SetDefault("location.interval", d.Location.Interval)
	v.SetDefault("routes", []map[string]any{
		{"path": "/", "component": "home"},
		{"path": "/**", "component": "not-found"},
	})
}

// FlagBindings maps config keys to the flag names that override them.
var FlagBindings = map[string]string{
	"initial_navigation": "policy",
	"log.level":          "log-level",
	"log.format":         "log-format",
	"trace.dir":          "trace-dir",
	"trace.format":       "trace-format",
	"trace.dot":          "dot",
	"location.initial":   "location",
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file. Empty means no file.
	File string
	// Flags overrides file and env values for the keys in FlagBindings
	// when the user set them.
	Flags *pflag.FlagSet
}

// Load reads configuration with precedence flags > env > file > defaults,
// then validates it.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	}

	if opts.Flags != nil {
		for key, name := range FlagBindings {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	cfg.InitialNavigation = cfg.InitialNavigation.Resolved()
	return &cfg, nil
}
