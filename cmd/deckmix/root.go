package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cbegin/deckmix-go"
	"github.com/cbegin/deckmix-go/internal/config"
	"github.com/cbegin/deckmix-go/internal/logging"
	"github.com/cbegin/deckmix-go/internal/mixer"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deckmix",
	Short: "A two-deck DJ mixing engine",
	Long: `deckmix plays two WAV tracks side by side through per-deck EQ and effects,
a crossfader and a master section.

Use "deckmix play" for live output controlled from stdin, or "deckmix render"
to mix offline into a WAV file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./deckmix.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.Int("sample-rate", 44100, "output sample rate")
	pf.Int("block-size", 512, "frames per audio period")
	pf.String("backend", "ebiten", "audio backend (ebiten, oto, null)")
	pf.String("crossfade-curve", "linear", "crossfader law (linear, equal-power)")
	pf.String("end-of-track", "loop", "what decks do at the end of a track (loop, stop)")
	pf.Bool("limiter", false, "limit the master output")
	pf.Bool("test-tone", false, "play a 440 Hz tone on decks with nothing loaded")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")

	viper.BindPFlag("audio.sample_rate", pf.Lookup("sample-rate"))
	viper.BindPFlag("audio.block_size", pf.Lookup("block-size"))
	viper.BindPFlag("audio.backend", pf.Lookup("backend"))
	viper.BindPFlag("mixer.crossfade_curve", pf.Lookup("crossfade-curve"))
	viper.BindPFlag("mixer.end_of_track", pf.Lookup("end-of-track"))
	viper.BindPFlag("mixer.limiter", pf.Lookup("limiter"))
	viper.BindPFlag("mixer.test_tone", pf.Lookup("test-tone"))
	viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	viper.BindPFlag("logging.format", pf.Lookup("log-format"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// loadConfig loads, validates and applies logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, nil
}

// newMixer builds a mixer from cfg and applies the configured initial levels.
func newMixer(cfg *config.Config) (*deckmix.Mixer, error) {
	curve, err := mixer.ParseCrossfadeCurve(cfg.Mixer.CrossfadeCurve)
	if err != nil {
		return nil, err
	}
	eot, err := mixer.ParseEndOfTrack(cfg.Mixer.EndOfTrack)
	if err != nil {
		return nil, err
	}
	m, err := deckmix.NewMixer(cfg.Audio.SampleRate,
		deckmix.WithBlockSize(cfg.Audio.BlockSize),
		deckmix.WithBackend(cfg.Audio.Backend),
		deckmix.WithCrossfadeCurve(curve),
		deckmix.WithEndOfTrack(eot),
		deckmix.WithTestTone(cfg.Mixer.TestTone),
		deckmix.WithMasterLimiter(cfg.Mixer.Limiter),
	)
	if err != nil {
		return nil, err
	}
	m.SetCrossfader(float32(cfg.Mixer.Crossfader))
	m.SetMasterVolume(float32(cfg.Mixer.MasterVolume))
	m.SetHeadphoneVolume(float32(cfg.Mixer.HeadphoneVolume))
	for deck := 1; deck <= deckmix.NumDecks; deck++ {
		m.SetDeckVolume(deck, float32(cfg.Decks.Volume))
	}
	logrus.WithFields(logrus.Fields{
		"function":    "newMixer",
		"sample_rate": cfg.Audio.SampleRate,
		"curve":       curve.String(),
		"limiter":     cfg.Mixer.Limiter,
	}).Debug("Mixer configured")
	return m, nil
}

// loadDecks loads each non-empty path onto its deck, in order.
func loadDecks(m *deckmix.Mixer, paths ...string) error {
	for i, p := range paths {
		if p == "" {
			continue
		}
		if err := m.SetDeckFile(i+1, p); err != nil {
			return fmt.Errorf("deck %d: %w", i+1, err)
		}
	}
	return nil
}
