package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// parseInterspersed parses fs while allowing flags after positional arguments and returns
// the positionals in order. Everything after a standalone "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	if i := slices.Index(args, "--"); i >= 0 {
		args, rest = args[:i], args[i+1:]
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return append(positional, rest...), nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func needArgs(cmd string, args []string, min int, usage string) error {
	if len(args) < min {
		return fmt.Errorf("usage: jobscout %s %s", cmd, usage)
	}
	return nil
}

func atoiArg(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, v)
	}
	return n, nil
}
