package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/baxromumarov/jobscout/internal/app"
	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/observability"
	"github.com/baxromumarov/jobscout/internal/secrets"
)

const usage = `usage: jobscout [-config file] <command> [args]

commands:
  top N [--csv file]
  search QUERY [--limit n] [--company c] [--type t] [--contract c] [--location l] [--page p]
  get ID [--enrich] [--pages n] [--csv file]
  type ID
  list-company LOCATION COMPANY [LIMIT] [--csv file]
  skills START END [--limit n] [--csv file]
  statistics zone [--limit n] [--out file] [--delimiter ,|;]
  list-skills ROLE [--top n] [--pages n]
  status
  auth set-key KEY | auth delete-key
`

func main() {
	configPath := flag.String("config", os.Getenv("JOBSCOUT_CONFIG"), "Path to YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	slog.SetDefault(observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args[0], args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, cmd string, args []string, stdout, stderr io.Writer) error {
	if cmd == "auth" {
		return runAuth(args, stdout)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	c := &cli{app: a, stdout: stdout, stderr: stderr}
	switch cmd {
	case "top":
		return c.top(ctx, args)
	case "search":
		return c.search(ctx, args)
	case "get":
		return c.get(ctx, args)
	case "type":
		return c.workType(ctx, args)
	case "list-company":
		return c.listCompany(ctx, args)
	case "skills":
		return c.skills(ctx, args)
	case "statistics":
		return c.statistics(ctx, args)
	case "list-skills":
		return c.listSkills(ctx, args)
	case "status":
		return c.status(ctx)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAuth(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: jobscout auth set-key KEY | auth delete-key")
	}
	switch args[0] {
	case "set-key":
		if err := needArgs("auth set-key", args[1:], 1, "KEY"); err != nil {
			return err
		}
		if err := secrets.SetAPIKey(args[1]); err != nil {
			return fmt.Errorf("store api key: %w", err)
		}
		fmt.Fprintln(stdout, "API key saved to the system keyring.")
		return nil
	case "delete-key":
		if err := secrets.DeleteAPIKey(); err != nil {
			return fmt.Errorf("delete api key: %w", err)
		}
		fmt.Fprintln(stdout, "API key removed from the system keyring.")
		return nil
	default:
		return fmt.Errorf("unknown auth command %q", args[0])
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDelimiter(v string) (rune, error) {
	switch strings.TrimSpace(v) {
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	}
	return 0, fmt.Errorf("delimiter must be ',' or ';', got %q", v)
}
