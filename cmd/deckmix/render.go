package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbegin/deckmix-go"
)

var renderFlags struct {
	deck1, deck2 string
	seconds      float64
	output       string
	format       string
	crossfader   float64
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Mix offline into a WAV file",
	Long: `Load the given decks, play them from the start and write the mix to a
WAV file without touching the audio device.`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.deck1, "deck1", "", "WAV file for deck 1")
	f.StringVar(&renderFlags.deck2, "deck2", "", "WAV file for deck 2")
	f.Float64Var(&renderFlags.seconds, "seconds", 10, "length of the mix")
	f.StringVarP(&renderFlags.output, "output", "o", "mix.wav", "output file")
	f.StringVar(&renderFlags.format, "format", "f32", "sample format (f32, s16)")
	f.Float64Var(&renderFlags.crossfader, "crossfader", -1, "crossfader position, overrides config when set")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderFlags.seconds <= 0 {
		return fmt.Errorf("--seconds must be positive")
	}
	format := strings.ToLower(renderFlags.format)
	if format != "f32" && format != "s16" {
		return fmt.Errorf("unknown --format %q", renderFlags.format)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := newMixer(cfg)
	if err != nil {
		return err
	}
	if err := loadDecks(m, renderFlags.deck1, renderFlags.deck2); err != nil {
		return err
	}
	for deck := 1; deck <= deckmix.NumDecks; deck++ {
		m.SetDeckPlaying(deck, m.DeckLoaded(deck))
	}
	if renderFlags.crossfader >= 0 {
		m.SetCrossfader(float32(renderFlags.crossfader))
	}

	samples, err := deckmix.RenderSeconds(m, renderFlags.seconds)
	if err != nil {
		return err
	}

	f, err := os.Create(renderFlags.output)
	if err != nil {
		return err
	}
	defer f.Close()
	if format == "s16" {
		err = deckmix.WriteWAV16(f, samples, m.SampleRate(), 2)
	} else {
		_, err = f.Write(deckmix.EncodeWAVFloat32LE(samples, m.SampleRate(), 2))
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", renderFlags.output, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "runRender",
		"output":   renderFlags.output,
		"seconds":  renderFlags.seconds,
		"format":   format,
	}).Info("Mix rendered")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2fs)\n", renderFlags.output, renderFlags.seconds)
	return f.Close()
}
