// Package command implements the line-oriented control protocol read by
// `deckmix play`. Each line is one command: a verb followed by
// space-separated arguments, for example
//
//	play 1 on
//	volume 2 0.7
//	eq 1 0 -0.5
//	effect 2 echo on
//	load 1 /music/track.wav
//	crossfader 0.25
//
// Blank lines and lines starting with # are ignored.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrQuit is returned by Exec for the quit command.
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Surface is the mixer's control API as seen by the protocol.
type Surface interface {
	SetDeckPlaying(deck int, playing bool)
	SetDeckVolume(deck int, volume float32)
	SetDeckPitch(deck int, pitch float32)
	SetDeckPosition(deck int, fraction float64)
	SetDeckFile(deck int, path string) error
	SetEffect(deck, effect int, enabled bool)
	SetEQ(deck, band int, value float32)
	SetFilterCutoff(deck int, hz float32)
	SetFilterResonance(deck int, q float32)
	SetFlangerRate(deck int, hz float32)
	SetFlangerDepth(deck int, ms float32)
	SetCrossfader(value float32)
	SetMasterVolume(volume float32)
	SetHeadphoneVolume(volume float32)

	DeckPosition(deck int) float64
	DeckLoaded(deck int) bool
	DeckDuration(deck int) float64
}

type handler struct {
	usage string
	args  int
	run   func(s Surface, out io.Writer, args []string) error
}

var handlers = map[string]handler{
	"play": {"play <deck> [on|off]", -1, func(s Surface, _ io.Writer, a []string) error {
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		on := true
		if len(a) > 1 {
			if on, err = parseBool(a[1]); err != nil {
				return err
			}
		}
		s.SetDeckPlaying(deck, on)
		return nil
	}},
	"stop": {"stop <deck>", 1, func(s Surface, _ io.Writer, a []string) error {
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		s.SetDeckPlaying(deck, false)
		return nil
	}},
	"volume": deckFloat("volume <deck> <0..1>", func(s Surface, d int, v float64) { s.SetDeckVolume(d, float32(v)) }),
	"pitch":  deckFloat("pitch <deck> <value>", func(s Surface, d int, v float64) { s.SetDeckPitch(d, float32(v)) }),
	"seek":   deckFloat("seek <deck> <0..1>", func(s Surface, d int, v float64) { s.SetDeckPosition(d, v) }),
	"cutoff": deckFloat("cutoff <deck> <hz>", func(s Surface, d int, v float64) { s.SetFilterCutoff(d, float32(v)) }),
	"resonance": deckFloat("resonance <deck> <q>", func(s Surface, d int, v float64) {
		s.SetFilterResonance(d, float32(v))
	}),
	"flanger-rate": deckFloat("flanger-rate <deck> <hz>", func(s Surface, d int, v float64) {
		s.SetFlangerRate(d, float32(v))
	}),
	"flanger-depth": deckFloat("flanger-depth <deck> <ms>", func(s Surface, d int, v float64) {
		s.SetFlangerDepth(d, float32(v))
	}),
	"load": {"load <deck> <path>", -1, func(s Surface, out io.Writer, a []string) error {
		if len(a) < 2 {
			return ErrUsage
		}
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		path := strings.Join(a[1:], " ")
		if err := s.SetDeckFile(deck, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "deck %d: loaded %s (%.2fs)\n", deck, path, s.DeckDuration(deck))
		return nil
	}},
	"effect": {"effect <deck> <flanger|filter|echo|reverb|0..3> <on|off>", 3, func(s Surface, _ io.Writer, a []string) error {
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		id, err := parseID(a[1], effectNames)
		if err != nil {
			return err
		}
		on, err := parseBool(a[2])
		if err != nil {
			return err
		}
		s.SetEffect(deck, id, on)
		return nil
	}},
	"eq": {"eq <deck> <low|mid|high|0..2> <-1..1>", 3, func(s Surface, _ io.Writer, a []string) error {
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		band, err := parseID(a[1], bandNames)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(a[2], 32)
		if err != nil {
			return err
		}
		s.SetEQ(deck, band, float32(v))
		return nil
	}},
	"crossfader": globalFloat("crossfader <0..1>", func(s Surface, v float64) { s.SetCrossfader(float32(v)) }),
	"master":     globalFloat("master <0..1>", func(s Surface, v float64) { s.SetMasterVolume(float32(v)) }),
	"headphone":  globalFloat("headphone <0..1>", func(s Surface, v float64) { s.SetHeadphoneVolume(float32(v)) }),
	"status": {"status", 0, func(s Surface, out io.Writer, _ []string) error {
		for deck := 1; deck <= 2; deck++ {
			if !s.DeckLoaded(deck) {
				fmt.Fprintf(out, "deck %d: empty\n", deck)
				continue
			}
			fmt.Fprintf(out, "deck %d: %.3f of %.2fs\n", deck, s.DeckPosition(deck), s.DeckDuration(deck))
		}
		return nil
	}},
	"quit": {"quit", 0, func(Surface, io.Writer, []string) error { return ErrQuit }},
}

var (
	effectNames = map[string]int{"flanger": 0, "filter": 1, "echo": 2, "reverb": 3}
	bandNames   = map[string]int{"low": 0, "mid": 1, "high": 2}
)

func deckFloat(usage string, set func(Surface, int, float64)) handler {
	return handler{usage, 2, func(s Surface, _ io.Writer, a []string) error {
		deck, err := parseDeck(a[0])
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(a[1], 64)
		if err != nil {
			return err
		}
		set(s, deck, v)
		return nil
	}}
}

func globalFloat(usage string, set func(Surface, float64)) handler {
	return handler{usage, 1, func(s Surface, _ io.Writer, a []string) error {
		v, err := strconv.ParseFloat(a[0], 64)
		if err != nil {
			return err
		}
		set(s, v)
		return nil
	}}
}

// parseDeck only checks syntax; range checking is the surface's job.
func parseDeck(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseID(s string, names map[string]int) (int, error) {
	if id, ok := names[strings.ToLower(s)]; ok {
		return id, nil
	}
	return strconv.Atoi(s)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Exec runs one protocol line against s, writing any reply to out.
func Exec(s Surface, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	verb := strings.ToLower(fields[0])
	if verb == "help" {
		writeHelp(out)
		return nil
	}
	h, ok := handlers[verb]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]
	if (h.args >= 0 && len(args) != h.args) || (h.args < 0 && len(args) == 0) {
		return fmt.Errorf("%w: %s", ErrUsage, h.usage)
	}
	if err := h.run(s, out, args); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s", ErrUsage, h.usage)
		}
		return err
	}
	return nil
}

// Run executes lines from r until EOF, quit or ctx is cancelled. Errors
// from individual lines are reported on out and do not stop the loop.
func Run(ctx context.Context, s Surface, r io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			err := Exec(s, line, out)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

func writeHelp(out io.Writer) {
	usages := make([]string, 0, len(handlers))
	for _, h := range handlers {
		usages = append(usages, h.usage)
	}
	sort.Strings(usages)
	for _, u := range usages {
		fmt.Fprintln(out, u)
	}
}
