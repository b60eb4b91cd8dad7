// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ik5/radiobox/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices usable for monitoring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		devs, err := listDevices()
		if err != nil {
			return err
		}
		printDevices(cmd.OutOrStdout(), devs)
		return nil
	},
}

func printDevices(w io.Writer, devs []device.DeviceInfo) {
	for _, d := range devs {
		marker := "  "
		if d.DefaultInput {
			marker = markerStyle.Render("* ")
		}
		fmt.Fprintf(w, "%s%2d  %s  %s\n", marker, d.Index, titleStyle.Render(d.Name),
			labelStyle.Render(fmt.Sprintf("%s, in %d, out %d, %.0f Hz",
				d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)))
	}
}
