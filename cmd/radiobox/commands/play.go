// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ik5/radiobox"
	"github.com/ik5/radiobox/effects"
)

var (
	playTrack  int
	playFilter string
)

var errQuit = errors.New("quit")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive player",
	Long: `Play the station catalog with keyboard controls:

  space     play / pause
  n, p      next / previous station
  1-9, 0    preset
  s         stop
  +, -      volume
  f         cycle filter
  m         toggle monitoring (live input)
  r         roger beep
  o, c      squelch open / close
  q         quit`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVarP(&playTrack, "track", "t", 0, "station to start on (1-based, 0 = stay stopped)")
	playCmd.Flags().StringVarP(&playFilter, "filter", "f", "", "initial filter (am, fm, ham, walkie)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playFilter != "" {
		mode, err := effects.ParseFilterMode(playFilter)
		if err != nil {
			return err
		}
		cfg.Player.Filter = mode.String()
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal")
	}

	box, err := radiobox.Open(cfg)
	if err != nil {
		return err
	}
	defer box.Close()

	if playTrack > 0 {
		box.Controller.SelectTrack(playTrack-1, true)
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, helpStyle.Render(helpText)+"\r\n")

	keys := make(chan byte)
	// Reads from stdin cannot be interrupted; this goroutine ends with the process.
	go readKeys(os.Stdin, keys)

	k := newKnobs(box.Controller, cfg.Player.VolumeSteps)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case b, ok := <-keys:
				if !ok {
					return errQuit
				}
				a, index := keyAction(b)
				if k.apply(a, index) {
					return errQuit
				}
			}
		}
	})

	g.Go(func() error {
		states := box.Controller.Subscribe()
		for {
			select {
			case <-gctx.Done():
				return nil
			case st, ok := <-states:
				if !ok {
					return nil
				}
				fmt.Fprint(out, "\r"+statusLine(st)+"\x1b[K")
			}
		}
	})

	err = g.Wait()
	fmt.Fprint(out, "\r\n")
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}
