// Package main provides the matarray CLI for inspecting MAT-files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/born-ml/matarray/array"
	"github.com/born-ml/matarray/matfile"
)

const version = "v0.1.0"

func main() {
	os.Exit(runMain())
}

// runMain parses flags and runs the command, returning the exit code. Deferred
// calls run before main exits.
func runMain() int {
	var (
		verbose = flag.Bool("v", false, "Log codec and compatibility diagnostics to stderr")
		lenient = flag.Bool("lenient", false, "Skip malformed variables instead of failing")
		limit   = flag.Int("limit", 100, "Maximum number of elements printed by show")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
		array.SetLogger(logger)
		matfile.SetLogger(logger)
	}

	opts := matfile.ReaderOptions{ValidationLevel: matfile.ValidationStrict}
	if *lenient {
		opts.ValidationLevel = matfile.ValidationLenient
	}

	if err := run(os.Stdout, flag.Args(), opts, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: matarray [-v] [-lenient] version")
	fmt.Fprintln(os.Stderr, "       matarray [-v] [-lenient] ls FILE")
	fmt.Fprintln(os.Stderr, "       matarray [-v] [-lenient] [-limit N] show FILE VAR")
	flag.PrintDefaults()
}

func run(out io.Writer, args []string, opts matfile.ReaderOptions, limit int) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	p := newPrinter(out)
	switch args[0] {
	case "version":
		fmt.Fprintf(out, "matarray %s\n", version)
		return nil
	case "ls":
		if len(args) != 2 {
			return errors.New("usage: matarray ls FILE")
		}
		f, err := matfile.LoadWithOptions(args[1], opts)
		if err != nil {
			return err
		}
		defer f.Release()
		p.list(args[1], f)
		return nil
	case "show":
		if len(args) != 3 {
			return errors.New("usage: matarray show FILE VAR")
		}
		f, err := matfile.LoadWithOptions(args[1], opts)
		if err != nil {
			return err
		}
		defer f.Release()
		return p.show(f, args[2], limit)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
