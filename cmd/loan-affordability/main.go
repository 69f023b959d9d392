// Command loan-affordability evaluates purchase scenarios, computes loan
// payments and borrowing capacity, and serves the same computations over HTTP.
package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	logLevel string
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "loan-affordability",
		Short:         "Loan payment and affordability calculator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newEvaluateCommand(opts),
		newPaymentCommand(opts),
		newMaxBorrowableCommand(opts),
		newServeCommand(opts),
	)

	return root
}

func main() {
	// A missing .env file is normal; variables may come from the environment.
	_ = godotenv.Load()

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
