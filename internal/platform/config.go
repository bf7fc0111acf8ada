package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/serlyo/pkg/planner"
	"github.com/aretw0/serlyo/pkg/typed"
)

// ConfigFileName is the configuration file looked up in the store root.
const ConfigFileName = "serlyo.yaml"

// EnvPrefix prefixes environment overrides, e.g. SERLYO_STORE_ADAPTER.
const EnvPrefix = "SERLYO"

// Config is the file and environment configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the storage adapter.
type StoreConfig struct {
	Adapter    string `yaml:"adapter" mapstructure:"adapter"`
	Path       string `yaml:"path" mapstructure:"path"`
	Versioning bool   `yaml:"versioning" mapstructure:"versioning"`
	Format     string `yaml:"format" mapstructure:"format"`
	ReadOnly   bool   `yaml:"read_only" mapstructure:"read_only"`
}

// PlannerConfig configures the scheduling engine.
type PlannerConfig struct {
	ConflictPolicy string `yaml:"conflict_policy" mapstructure:"conflict_policy"`
	Lifecycle      string `yaml:"lifecycle" mapstructure:"lifecycle"`
	DefaultOwner   string `yaml:"default_owner" mapstructure:"default_owner"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Adapter: AdapterFS,
			Path:    ".",
			Format:  "json",
		},
		Planner: PlannerConfig{
			ConflictPolicy: planner.PolicyDate,
			Lifecycle:      planner.ModeArchive.String(),
			DefaultOwner:   planner.DefaultOwner,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads the configuration. An explicit file must exist; otherwise
// serlyo.yaml is looked up in dir and its absence is not an error.
// SERLYO_* environment variables override both.
func LoadConfig(file, dir string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, filepath.Ext(ConfigFileName)))
	}
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("store.adapter", d.Store.Adapter)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.versioning", d.Store.Versioning)
	v.SetDefault("store.format", d.Store.Format)
	v.SetDefault("store.read_only", d.Store.ReadOnly)
	v.SetDefault("planner.conflict_policy", d.Planner.ConflictPolicy)
	v.SetDefault("planner.lifecycle", d.Planner.Lifecycle)
	v.SetDefault("planner.default_owner", d.Planner.DefaultOwner)
	v.SetDefault("log.level", d.Log.Level)
}

// WriteDefaultConfig writes the default configuration to dir/serlyo.yaml.
// An existing file is left alone and reported with os.ErrExist.
func WriteDefaultConfig(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, os.ErrExist)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// Options converts the configuration into factory options.
func (c Config) Options() ([]Option, error) {
	policy, err := planner.ParseConflictPolicy(c.Planner.ConflictPolicy)
	if err != nil {
		return nil, err
	}
	mode, err := planner.ParseMode(c.Planner.Lifecycle)
	if err != nil {
		return nil, err
	}
	if _, err := typed.SerializerFor(c.Store.Format); err != nil {
		return nil, err
	}

	policyName := strings.ToLower(strings.TrimSpace(c.Planner.ConflictPolicy))
	if policyName == "" {
		policyName = planner.PolicyDate
	}

	plannerOpts := []planner.Option{
		planner.WithConflictPolicy(policyName, policy),
		planner.WithLifecycleMode(mode),
	}
	if c.Planner.DefaultOwner != "" {
		plannerOpts = append(plannerOpts, planner.WithDefaultOwner(c.Planner.DefaultOwner))
	}

	return []Option{
		WithAdapter(c.Store.Adapter),
		WithFormat(c.Store.Format),
		WithVersioning(c.Store.Versioning),
		WithReadOnly(c.Store.ReadOnly),
		WithPlannerOptions(plannerOpts...),
	}, nil
}

// ParseLevel maps a level name to slog. Unknown names are info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
