package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dusk-indust/segagree/internal/config"
	"github.com/dusk-indust/segagree/internal/logging"
	"github.com/dusk-indust/segagree/internal/mcptools"
	"go.uber.org/zap"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	LogLevel  string
	LogFile   string
	Workers   int
	ServeMCP  bool
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: segagree [flags] <command> [args]

commands:
  strict FILE          strict boundary agreement (multi-pi, multi-kappa, bias)
  near FILE            near agreement within a sliding window (pi or alpha)
  gold FILE            derive a gold segmentation by pairwise majority
  meanpi FILE GOLD     mean pi of every coder against a gold segmentation
  random FILE          random baseline segmentation
  null FILE            null (no boundaries) baseline segmentation
  filter FILE CODER..  keep only the named coders
  project FILE ONTO    snap boundaries onto those of another segmentation
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	cfg    *config.ProjectConfig
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("segagree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}
	fs.StringVar(&flags.ConfigDir, "config", ".", "directory holding segagree.yml")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&flags.LogFile, "log-file", "", "also write JSON logs to this file")
	fs.IntVar(&flags.Workers, "workers", 0, "documents processed in parallel (0 = unbounded)")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server on stdio")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.LogFile = flags.LogFile
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: stderr})
	if err != nil {
		return err
	}
	defer log.Sync()

	a := &app{cfg: cfg, log: log, stdout: stdout, stderr: stderr}

	if flags.ServeMCP {
		svc := mcptools.NewAgreementService(log, cfg.Workers, cfg.Interval)
		log.Info("serving MCP on stdio")
		return mcptools.RunMCPServerStdio(ctx, mcptools.NewAgreementMCPServer(svc))
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("no command given")
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "strict":
		return a.runStrict(ctx, cmdArgs)
	case "near":
		return a.runNear(ctx, cmdArgs)
	case "gold":
		return a.runGold(cmdArgs)
	case "meanpi":
		return a.runMeanPi(cmdArgs)
	case "random":
		return a.runRandom(cmdArgs)
	case "null":
		return a.runNull(cmdArgs)
	case "filter":
		return a.runFilter(cmdArgs)
	case "project":
		return a.runProject(cmdArgs)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// newFlagSet returns a subcommand flag set writing errors to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
