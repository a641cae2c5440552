// Package config loads deckmix settings through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cbegin/deckmix-go/internal/mixer"
)

// Config holds all configuration for the mixer and its CLI.
type Config struct {
	Audio   AudioConfig   `mapstructure:"audio"`
	Mixer   MixerConfig   `mapstructure:"mixer"`
	Decks   DecksConfig   `mapstructure:"decks"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AudioConfig selects the output driver and its period.
type AudioConfig struct {
	SampleRate int    `mapstructure:"sample_rate"`
	BlockSize  int    `mapstructure:"block_size"`
	Backend    string `mapstructure:"backend"` // ebiten, oto or null
}

// MixerConfig holds engine behaviour and the initial master-section values.
type MixerConfig struct {
	CrossfadeCurve  string  `mapstructure:"crossfade_curve"`
	EndOfTrack      string  `mapstructure:"end_of_track"`
	TestTone        bool    `mapstructure:"test_tone"`
	Limiter         bool    `mapstructure:"limiter"`
	Crossfader      float64 `mapstructure:"crossfader"`
	MasterVolume    float64 `mapstructure:"master_volume"`
	HeadphoneVolume float64 `mapstructure:"headphone_volume"`
}

// DecksConfig holds the initial per-deck values.
type DecksConfig struct {
	Volume float64 `mapstructure:"volume"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.block_size", 512)
	v.SetDefault("audio.backend", "ebiten")
	v.SetDefault("mixer.crossfade_curve", "linear")
	v.SetDefault("mixer.end_of_track", "loop")
	v.SetDefault("mixer.test_tone", false)
	v.SetDefault("mixer.limiter", false)
	v.SetDefault("mixer.crossfader", 0.5)
	v.SetDefault("mixer.master_volume", 0.8)
	v.SetDefault("mixer.headphone_volume", 0.8)
	v.SetDefault("decks.volume", 0.8)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads configuration from defaults, an optional config file and
// DECKMIX_* environment variables. Flags bound to v take precedence.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("deckmix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.deckmix")
	}

	v.SetEnvPrefix("DECKMIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "Load",
		}).Debug("No config file found, using defaults and environment variables")
	} else {
		logrus.WithFields(logrus.Fields{
			"function": "Load",
			"file":     v.ConfigFileUsed(),
		}).Info("Using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations. The first problem found is
// returned as an *Error.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return &Error{Field: "audio.sample_rate", Message: fmt.Sprintf("%d is outside 8000..192000", c.Audio.SampleRate)}
	}
	if c.Audio.BlockSize < 16 || c.Audio.BlockSize > 8192 {
		return &Error{Field: "audio.block_size", Message: fmt.Sprintf("%d is outside 16..8192", c.Audio.BlockSize)}
	}
	switch strings.ToLower(c.Audio.Backend) {
	case "ebiten", "oto", "null":
	default:
		return &Error{Field: "audio.backend", Message: fmt.Sprintf("unknown backend %q", c.Audio.Backend)}
	}
	if _, err := mixer.ParseCrossfadeCurve(c.Mixer.CrossfadeCurve); err != nil {
		return &Error{Field: "mixer.crossfade_curve", Message: err.Error()}
	}
	if _, err := mixer.ParseEndOfTrack(c.Mixer.EndOfTrack); err != nil {
		return &Error{Field: "mixer.end_of_track", Message: err.Error()}
	}
	unit := []struct {
		field string
		value float64
	}{
		{"mixer.crossfader", c.Mixer.Crossfader},
		{"mixer.master_volume", c.Mixer.MasterVolume},
		{"mixer.headphone_volume", c.Mixer.HeadphoneVolume},
		{"decks.volume", c.Decks.Volume},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return &Error{Field: u.field, Message: fmt.Sprintf("%g is outside 0..1", u.value)}
		}
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return &Error{Field: "logging.level", Message: err.Error()}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return &Error{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// Error represents a configuration validation error
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}
