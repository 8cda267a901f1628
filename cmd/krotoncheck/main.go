// Command krotoncheck checks a season snapshot from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/krotoncheck/internal/core"
	_ "github.com/JonMunkholm/krotoncheck/internal/core/checks" // Register all checks
	"github.com/JonMunkholm/krotoncheck/internal/logging"
)

const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitProblems = 3
)

// codeError carries the process exit code of a failed command.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &codeError{code: code, err: err}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "krotoncheck",
		Short:         "Audit the match records of a league season",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(os.Stderr, logLevel, logFormat)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")

	root.AddCommand(newCheckCmd(), newIDsCmd(), newChecksCmd())
	return root
}

func main() {
	_ = godotenv.Load()

	err := newRootCmd().ExecuteContext(context.Background())
	if err == nil {
		os.Exit(exitOK)
	}

	code := exitError
	var ce *codeError
	if errors.As(err, &ce) {
		code = ce.code
	}
	if code != exitProblems {
		printError(os.Stderr, err)
	}
	os.Exit(code)
}

// printError writes the user message of known errors with the technical
// error below it.
func printError(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "error:", core.FormatUserError(err))
		fmt.Fprintln(w, "  cause:", err)
		return
	}
	fmt.Fprintln(w, "error:", err)
}
