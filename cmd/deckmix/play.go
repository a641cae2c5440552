package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cbegin/deckmix-go"
	"github.com/cbegin/deckmix-go/internal/command"
)

var playFlags struct {
	deck1, deck2 string
	autoplay     bool
}

var _ command.Surface = (*deckmix.Mixer)(nil)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Mix live to the audio device",
	Long: `Start the engine on the configured audio backend and read control
commands from stdin, one per line. Type "help" for the command list and
"quit" (or send SIGINT) to stop.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playFlags.deck1, "deck1", "", "WAV file for deck 1")
	playCmd.Flags().StringVar(&playFlags.deck2, "deck2", "", "WAV file for deck 2")
	playCmd.Flags().BoolVar(&playFlags.autoplay, "autoplay", false, "start loaded decks immediately")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := newMixer(cfg)
	if err != nil {
		return err
	}
	if err := loadDecks(m, playFlags.deck1, playFlags.deck2); err != nil {
		return err
	}
	if playFlags.autoplay {
		m.SetDeckPlaying(1, m.DeckLoaded(1))
		m.SetDeckPlaying(2, m.DeckLoaded(2))
	}

	if err := m.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(out, `deckmix ready, type "help" for commands`)
	}
	runErr := command.Run(ctx, m, os.Stdin, out)
	if ctx.Err() != nil {
		fmt.Fprintln(out, "\nshutting down")
		runErr = nil
	}

	if err := m.Stop(); err != nil {
		return fmt.Errorf("failed to stop mixer: %w", err)
	}
	return runErr
}
