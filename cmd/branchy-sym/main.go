package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"go.uber.org/zap"

	"github.com/cespare/branchy"
	"github.com/cespare/branchy/internal/clilog"
)

const help = `branchy-sym: replay a symbolic test case through branchy.

Usage:

  branchy-sym [test.ktest]

branchy-sym is the instrumented variant of branchy. Its inputs "a" and "b"
are symbolic: a symbolic execution engine explores them and records each
path it finds as a KTEST file. branchy-sym reads one such file, runs the
program on the recorded values, and exits with the program's status: 1 if
the result is greater than 500 and 0 otherwise. It prints nothing.

If no input file is given, branchy-sym reads from standard input. Problems
with the test case itself exit with status 2.
`

func main() {
	logger := clilog.FromEnv(os.Stderr)
	code := run(logger, os.Args[1:], os.Stdin, os.Stdout)
	_ = logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger, args []string, stdin io.Reader, stdout io.Writer) int {
	var r io.Reader = stdin
	if len(args) > 0 {
		switch args[0] {
		case "-h", "help", "-help", "--help":
			fmt.Fprint(stdout, help)
			return 2
		}
		if len(args) > 1 {
			logger.Error("Too many arguments", zap.Strings("args", args))
			return 2
		}
		f, err := os.Open(args[0])
		if err != nil {
			logger.Error("Cannot open test case", zap.Error(err))
			return 2
		}
		defer f.Close()
		r = f
	}

	kt, err := branchy.ReadKTest(r)
	if err != nil {
		logger.Error("Error reading input as a KTEST file", zap.Error(err))
		return 2
	}
	logger.Debug("Replaying test case", zap.String("ktest", pretty.Sprint(kt)))

	replay := branchy.NewReplay(kt)
	status := branchy.RunSymbolic(replay)
	if err := replay.Err(); err != nil {
		logger.Error("Test case does not match the program's inputs", zap.Error(err))
		return 2
	}
	logger.Debug("Finished", zap.Int("status", status))
	return status
}
