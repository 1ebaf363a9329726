package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tnetkit/tnet/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┌┐┌┌─┐┌┬┐
   ║ │││├┤  │
   ╩ ┘└┘└─┘ ┴
`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tnet",
		Short: "Decode, inspect and relay game protocol frames",
		Long: `tnet speaks the length-framed game protocol.

It decodes frames to typed messages, encodes sample messages,
and runs a relay between clients and a server that lets hooks
inspect, rewrite or drop every frame in flight.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		decodeCmd(),
		encodeSampleCmd(),
		relayCmd(),
		versionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the tnet ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
