package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if flagJSON {
			_ = printJSON(map[string]string{"version": Version, "go": runtime.Version()})
			return
		}
		fmt.Printf("streamit %s (%s)\n", Version, runtime.Version())
	},
}
