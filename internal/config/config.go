package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/termdemo/internal/script"
)

const (
	DefaultDataDir  = ".termdemo"
	DefaultTheme    = "aurora"
	DefaultLogLevel = "info"
)

type Config struct {
	Preset   string       `yaml:"preset"`
	Script   string       `yaml:"script"`
	Theme    string       `yaml:"theme"`
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level"`
	LogFile  string       `yaml:"log_file"`
	Timing   TimingConfig `yaml:"timing"`
}

// TimingConfig overrides a script's pacing. Unset fields leave the script's
// own values in place; an explicit zero is applied.
type TimingConfig struct {
	CooldownMs     *int `yaml:"cooldown_ms,omitempty"`
	StartDelayMs   *int `yaml:"start_delay_ms,omitempty"`
	TypeIntervalMs *int `yaml:"type_interval_ms,omitempty"`
	TickIntervalMs *int `yaml:"tick_interval_ms,omitempty"`
	Ticks          *int `yaml:"ticks,omitempty"`
	EntranceMs     *int `yaml:"entrance_ms,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:   script.DefaultPreset,
		Theme:    DefaultTheme,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Sequence resolves the configured script file, or the preset when no
// script is set. Notes from script parsing are passed through.
func (c *Config) Sequence() (*script.Sequence, []string, error) {
	var (
		seq   *script.Sequence
		notes []string
		err   error
	)
	if c.Script != "" {
		seq, notes, err = script.Load(c.Script)
	} else {
		seq, err = script.GetPreset(c.Preset)
	}
	if err != nil {
		return nil, nil, err
	}
	return seq.WithTiming(c.Timing.Apply(seq.Timing())), notes, nil
}

// Apply returns base with every set override applied. Out-of-range values
// are normalized when the timing is attached to a sequence.
func (t TimingConfig) Apply(base script.Timing) script.Timing {
	set := func(dst *time.Duration, ms *int) {
		if ms != nil {
			*dst = time.Duration(*ms) * time.Millisecond
		}
	}
	set(&base.Cooldown, t.CooldownMs)
	set(&base.StartDelay, t.StartDelayMs)
	set(&base.TypeInterval, t.TypeIntervalMs)
	set(&base.TickInterval, t.TickIntervalMs)
	set(&base.Entrance, t.EntranceMs)
	if t.Ticks != nil {
		base.Ticks = *t.Ticks
	}
	return base
}
