// Command tlskey inspects, checks and uses TLS certificate keys, locally or
// through a running tlskey-server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "tlskey",
		Short:         "Inspect and use TLS handshake keys",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log key loading decisions")

	root.AddCommand(
		newInspectCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newMatchCmd(),
		newGenerateCmd(),
		newRemoteCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tlskey:", err)
		os.Exit(1)
	}
}
