// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/radiobox"
	"github.com/ik5/radiobox/catalog"
)

var tracksCheck bool

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the station catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var exists func(string) bool
		if tracksCheck {
			log, err := cfg.Logger()
			if err != nil {
				return err
			}
			exists = catalog.NewResolver(cfg.AssetDirs, radiobox.DefaultRegistry(), log).Exists
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Stations"))
		for _, line := range trackLines(catalog.Default().Tracks(), -1, exists) {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	tracksCmd.Flags().BoolVar(&tracksCheck, "check", false, "mark tracks missing from the asset directories")
}
