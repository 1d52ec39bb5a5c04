// Fcu-ctl manages the fan coil unit registry and sends one-shot commands.
//
// It shares its configuration file with fcu-bridge. Commands are published
// to the device's MQTT query topic exactly as the gateway app would send
// them.
//
// Usage:
//
//	fcu-ctl on --name Y165
//	fcu-ctl temp 21.5 --name Y165
//	fcu-ctl device add 60:01:94:65:7C:39 --device-name Y165
//
// See 'fcu-ctl --help' for all commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yipfcu/fcubridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fcu-ctl",
	Short: "Fan coil unit control utility",
	Long: `Send commands to configured fan coil units over MQTT and manage
the device registry shared with fcu-bridge.

Device commands (on, off, mode, temp, fan, swing) connect to the broker,
publish the command frame, and exit. Use 'fcu-bridge serve' for continuous
state monitoring.`,
	Version: version.Version,
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fcu-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
