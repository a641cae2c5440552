package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Display configuration values merged from defaults, config file, environment and flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current Configuration:")
		fmt.Fprintf(out, "  Audio:\n")
		fmt.Fprintf(out, "    Sample rate: %d\n", cfg.Audio.SampleRate)
		fmt.Fprintf(out, "    Block size: %d\n", cfg.Audio.BlockSize)
		fmt.Fprintf(out, "    Backend: %s\n", cfg.Audio.Backend)
		fmt.Fprintf(out, "  Mixer:\n")
		fmt.Fprintf(out, "    Crossfade curve: %s\n", cfg.Mixer.CrossfadeCurve)
		fmt.Fprintf(out, "    End of track: %s\n", cfg.Mixer.EndOfTrack)
		fmt.Fprintf(out, "    Limiter: %t\n", cfg.Mixer.Limiter)
		fmt.Fprintf(out, "    Test tone: %t\n", cfg.Mixer.TestTone)
		fmt.Fprintf(out, "    Crossfader: %.2f\n", cfg.Mixer.Crossfader)
		fmt.Fprintf(out, "    Master volume: %.2f\n", cfg.Mixer.MasterVolume)
		fmt.Fprintf(out, "    Headphone volume: %.2f\n", cfg.Mixer.HeadphoneVolume)
		fmt.Fprintf(out, "  Decks:\n")
		fmt.Fprintf(out, "    Volume: %.2f\n", cfg.Decks.Volume)
		fmt.Fprintf(out, "  Logging:\n")
		fmt.Fprintf(out, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "    Format: %s\n", cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
