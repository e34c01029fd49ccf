package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kakapo-ui/kakapo/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦╔═┌─┐┬┌─┌─┐┌─┐┌─┐
  ╠╩╗├─┤├┴┐├─┤├─┘│ │
  ╩ ╩┴ ┴┴ ┴┴ ┴┴  └─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "kakapo",
		Short: "A retained-mode UI toolkit core",
		Long: `kakapo renders views into retained widget trees.

A view describes the whole UI from application state on every pass;
the widget cache diffs that description against the last committed
tree and keeps widget identity across renders. Features include:

  • Invalidation from any goroutine without lost wakeups
  • Borrow-checked access to application state
  • Positional and keyed reconciliation
  • Terminal renderer and HTTP/WebSocket inspector
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		configCmd(),
		versionCmd(),
	)

	if !term.IsTerminal(int(os.Stderr.Fd())) {
		errors.DisableColors()
	}

	if err := rootCmd.Execute(); err != nil {
		var ke *errors.Error
		if stderrors.As(err, &ke) {
			errors.Fprint(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the kakapo ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
