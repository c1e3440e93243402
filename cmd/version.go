package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listmonkctl/listmonk"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected through ldflags
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: skipInit,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "listmonkctl %s\n", version)
		fmt.Fprintf(out, "Build time: %s\n", buildTime)
		fmt.Fprintf(out, "Client library: %s\n", listmonk.Version)
		fmt.Fprintf(out, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
