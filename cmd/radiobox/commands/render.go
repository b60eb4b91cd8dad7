// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/formats/wav"
	"github.com/ik5/radiobox/synth"
)

var renderFilter string

var renderCmd = &cobra.Command{
	Use:   "render <dir>",
	Short: "Export the noise, beep and heterodyne buffers as WAV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var mode effects.FilterMode
		filtered := renderFilter != ""
		if filtered {
			if mode, err = effects.ParseFilterMode(renderFilter); err != nil {
				return err
			}
		}

		bank, err := synth.NewBank(cfg.Audio.SampleRate, cfg.Audio.Channels, nil)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(args[0], 0o755); err != nil {
			return err
		}

		named := bank.Named()
		names := make([]string, 0, len(named))
		for name := range named {
			names = append(names, name)
		}
		slices.Sort(names)

		for _, name := range names {
			buf := named[name]
			samples := buf.Samples
			file := name + ".wav"
			if filtered {
				if samples, err = applyFilter(buf, mode); err != nil {
					return err
				}
				file = name + "-" + slug(mode) + ".wav"
			}

			path := filepath.Join(args[0], file)
			if err := writeWAV(path, buf.SampleRate, buf.Channels, samples); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", labelStyle.Render(fmt.Sprintf("%6.2fs", buf.Duration().Seconds())), path)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderFilter, "filter", "", "run the buffers through a filter mode")
}

// applyFilter returns a processed copy of buf.
func applyFilter(buf *synth.Buffer, mode effects.FilterMode) ([]float32, error) {
	chain, err := effects.NewChain(buf.SampleRate, buf.Channels)
	if err != nil {
		return nil, err
	}
	chain.ApplyMode(mode)

	out := slices.Clone(buf.Samples)
	chain.Process(out)
	return out, nil
}

func slug(mode effects.FilterMode) string {
	return strings.ToLower(strings.ReplaceAll(mode.String(), " ", "-"))
}

func writeWAV(path string, rate, channels int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.WriteFloat(f, rate, channels, samples); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
