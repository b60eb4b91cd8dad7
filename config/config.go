// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/effects"
)

// Output backends.
const (
	BackendOto      = "oto"
	BackendHeadless = "headless"
)

var (
	ErrInvalidSampleRate = errors.New("config: sample rate must be positive")
	ErrInvalidChannels   = errors.New("config: channels must be positive")
	ErrUnknownBackend    = errors.New("config: unknown output backend")
	ErrInvalidValue      = errors.New("config: invalid value")
)

// Audio holds device and format settings.
type Audio struct {
	SampleRate   int           `yaml:"sample_rate"`
	Channels     int           `yaml:"channels"`
	Output       string        `yaml:"output"`
	InputDevice  string        `yaml:"input_device"`
	BufferSize   time.Duration `yaml:"buffer_size"`
	InputFrames  int           `yaml:"input_frames"`
	HeadlessTick time.Duration `yaml:"headless_tick"`
}

// Player holds controller tuning.
type Player struct {
	Debounce       time.Duration `yaml:"debounce"`
	MaxTickPlayers int           `yaml:"max_tick_players"`
	TickVolume     float64       `yaml:"tick_volume"`
	Volume         float64       `yaml:"volume"`
	Filter         string        `yaml:"filter"`
	VolumeSteps    int           `yaml:"volume_steps"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Audio     Audio    `yaml:"audio"`
	AssetDirs []string `yaml:"asset_dirs"`
	Player    Player   `yaml:"player"`
	Log       Log      `yaml:"log"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Audio: Audio{
			SampleRate:   44100,
			Channels:     2,
			Output:       BackendOto,
			BufferSize:   50 * time.Millisecond,
			InputFrames:  512,
			HeadlessTick: 10 * time.Millisecond,
		},
		AssetDirs: []string{"assets"},
		Player: Player{
			Debounce:       150 * time.Millisecond,
			MaxTickPlayers: 8,
			TickVolume:     0.1,
			Volume:         0.5,
			Filter:         effects.HamRadio.String(),
			VolumeSteps:    32,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// RADIOBOX_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from RADIOBOX_* variables that are set.
func (c *Config) ApplyEnv() error {
	var errs []error
	c.Audio.SampleRate = envInt("RADIOBOX_SAMPLE_RATE", c.Audio.SampleRate, &errs)
	c.Audio.Channels = envInt("RADIOBOX_CHANNELS", c.Audio.Channels, &errs)
	c.Audio.Output = envStr("RADIOBOX_OUTPUT", c.Audio.Output)
	c.Audio.InputDevice = envStr("RADIOBOX_INPUT_DEVICE", c.Audio.InputDevice)
	c.Audio.BufferSize = envDuration("RADIOBOX_BUFFER_SIZE", c.Audio.BufferSize, &errs)

	if v := os.Getenv("RADIOBOX_ASSET_DIRS"); v != "" {
		c.AssetDirs = filepath.SplitList(v)
	}

	c.Player.Debounce = envDuration("RADIOBOX_DEBOUNCE", c.Player.Debounce, &errs)
	c.Player.MaxTickPlayers = envInt("RADIOBOX_MAX_TICK_PLAYERS", c.Player.MaxTickPlayers, &errs)
	c.Player.TickVolume = envFloat("RADIOBOX_TICK_VOLUME", c.Player.TickVolume, &errs)
	c.Player.Volume = envFloat("RADIOBOX_VOLUME", c.Player.Volume, &errs)
	c.Player.Filter = envStr("RADIOBOX_FILTER", c.Player.Filter)
	c.Player.VolumeSteps = envInt("RADIOBOX_VOLUME_STEPS", c.Player.VolumeSteps, &errs)

	c.Log.Level = envStr("RADIOBOX_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envStr("RADIOBOX_LOG_FORMAT", c.Log.Format)
	return errors.Join(errs...)
}

// Validate reports settings the audio stack cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.Audio.SampleRate))
	}
	if c.Audio.Channels <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidChannels, c.Audio.Channels))
	}
	switch c.Audio.Output {
	case BackendOto, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Audio.Output))
	}
	if _, err := c.FilterMode(); err != nil {
		errs = append(errs, err)
	}
	if c.Player.VolumeSteps < 1 {
		errs = append(errs, fmt.Errorf("%w: volume_steps %d", ErrInvalidValue, c.Player.VolumeSteps))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log level: %w", ErrInvalidValue, err))
	}
	return errors.Join(errs...)
}

// FilterMode parses the configured default filter.
func (c Config) FilterMode() (effects.FilterMode, error) {
	return effects.ParseFilterMode(c.Player.Filter)
}

// Logger builds a logrus logger from the log settings.
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %w", ErrInvalidValue, err)
	}
	log := logrus.New()
	log.SetLevel(level)
	switch strings.ToLower(c.Log.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return fallback
	}
	return d
}
