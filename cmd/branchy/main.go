// Command branchy runs the branchy decision function on two integers given
// on the command line and describes the path it takes.
//
// Usage:
//
//	branchy <num1> <num2>
//
// Set BRANCHY_LOG=debug to log diagnostics to stderr.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cespare/branchy"
	"github.com/cespare/branchy/internal/clilog"
)

var (
	errorStyle  = color.New(color.FgRed, color.Bold)
	noticeStyle = color.New(color.FgYellow, color.Bold)
)

// errUsage reports that the arguments were not usable; the usage text has
// already been printed.
var errUsage = errors.New("usage")

func main() {
	logger := clilog.FromEnv(os.Stderr)
	code := run(logger, os.Args[1:], os.Stdout, os.Stderr)
	_ = logger.Sync()
	os.Exit(code)
}

// run executes the command with args and returns the process exit status.
func run(logger *zap.Logger, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(logger, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			logger.Error("Command failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

func newRootCmd(logger *zap.Logger, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branchy <num1> <num2>",
		Short: "branchy - show which of four paths two integers take",
		// Arguments such as -5 are numbers, not flags.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				logger.Debug("Wrong number of arguments", zap.Int("count", len(args)))
				printUsage(cmd)
				return errUsage
			}
			x, err := parseInput(args[0])
			if err != nil {
				return badInput(cmd, stderr, err)
			}
			y, err := parseInput(args[1])
			if err != nil {
				return badInput(cmd, stderr, err)
			}
			report(logger, cmd.OutOrStdout(), x, y)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func printUsage(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Usage: %s <num1> <num2>\n", cmd.Name())
	fmt.Fprintf(w, "Example: %s 150 30\n", cmd.Name())
}

func badInput(cmd *cobra.Command, stderr io.Writer, err error) error {
	errorStyle.Fprintf(stderr, "error: %s\n", err)
	printUsage(cmd)
	return errUsage
}

// parseInput parses s as a 32-bit signed decimal integer.
func parseInput(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("number %q is out of range", s)
		}
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int32(n), nil
}

func report(logger *zap.Logger, w io.Writer, x, y int32) {
	fmt.Fprintf(w, "Input: x=%d, y=%d\n", x, y)
	branch, result := branchy.Decide(x, y)
	logger.Debug("Selected branch",
		zap.Int32("x", x),
		zap.Int32("y", y),
		zap.Stringer("branch", branch),
		zap.Int32("result", result),
	)
	fmt.Fprintf(w, "Path %d: %s\n", int(branch), branch.Condition())
	fmt.Fprintf(w, "Result: %d\n", result)
	if branchy.LargeResult(result) {
		noticeStyle.Fprintf(w, "Result is greater than %d\n", branchy.Threshold)
	}
}
