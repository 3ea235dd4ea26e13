// Command eve2cml converts EVE-NG lab files (.unl, or ZIP archives of them)
// into CML2 topologies.
//
// Usage:
//
//	eve2cml [flags] file_or_zip...
//
// Each lab is written next to its source with a .yaml, .json or .txt
// suffix, or to stdout with --stdout. With --watch the sources are converted
// again whenever they change, until the process is interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"eve2cml/internal/codec"
	"eve2cml/internal/config"
	"eve2cml/internal/loader"
	"eve2cml/internal/logging"
	"eve2cml/internal/mapper"
	"eve2cml/internal/service"
	"eve2cml/internal/watcher"
)

// version is set at build time
var version = "dev"

const (
	exitOK = iota
	exitSourceMissing
	exitInvalidSetup
	exitDocumentFailed
)

var levels = []string{"debug", "info", "warning", "error", "critical"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	level   string
	stdout  bool
	noColor bool
	dump    bool
	mapper  string
	text    bool
	json    bool
	format  string
	all     bool
	watch   bool
	version bool
	paths   []string
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("eve2cml", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Convert UNL/XML topologies to CML2 topologies\n\n")
		fmt.Fprintf(stderr, "Usage: eve2cml [flags] file_or_zip...\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample: eve2cml exportedlabs.zip\n")
	}

	opts := &options{}
	fs.StringVar(&opts.level, "level", cfg.LogLevel, "log level: debug, info, warning, error or critical")
	fs.BoolVar(&opts.stdout, "stdout", cfg.Stdout, "do not store in files, print to stdout")
	fs.BoolVar(&opts.noColor, "nocolor", cfg.NoColor, "no color log output")
	fs.BoolVar(&opts.dump, "dump", false, "dump the built-in mapper as YAML")
	fs.StringVar(&opts.mapper, "mapper", cfg.Mapper, "custom mapper YAML or JSON file")
	fs.BoolVar(&opts.text, "text", cfg.Format == codec.FormatText, "text output")
	fs.BoolVar(&opts.text, "t", cfg.Format == codec.FormatText, "text output (shorthand)")
	fs.BoolVar(&opts.json, "json", cfg.Format == codec.FormatJSON, "JSON output instead of YAML")
	fs.BoolVar(&opts.all, "all", cfg.All, "print all objects in text mode")
	fs.BoolVar(&opts.watch, "watch", false, "keep running and convert sources again when they change")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")
	fs.BoolVar(&opts.version, "V", false, "print the version and exit (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if !slices.Contains(levels, opts.level) {
		return nil, fmt.Errorf("invalid log level %q", opts.level)
	}

	switch {
	case opts.text:
		opts.format = codec.FormatText
	case opts.json:
		opts.format = codec.FormatJSON
	default:
		opts.format = codec.FormatYAML
	}
	opts.paths = fs.Args()
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		fatal(logging.New(stderr, "warning", false), "can't load config", "path", cfgPath, "error", err)
		return exitInvalidSetup
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitInvalidSetup
	}
	if opts.version {
		fmt.Fprintf(stdout, "eve2cml %s\n", version)
		return exitOK
	}

	logger := logging.New(stderr, opts.level, !opts.noColor)
	if cfgPath != "" {
		logger.Debug("config loaded", "path", cfgPath)
	}

	if opts.dump {
		return dumpMapper(opts, stdout, logger)
	}

	if len(opts.paths) == 0 {
		fmt.Fprintln(stderr, "eve2cml: at least one file_or_zip is required")
		return exitInvalidSetup
	}
	if opts.all && opts.format != codec.FormatText {
		logger.Warn("--all is only relevant with text output, ignoring")
	}

	table, err := mapper.Load(opts.mapper, logger)
	if err != nil {
		fatal(logger, "can't use mapper", "error", err)
		return exitInvalidSetup
	}

	a := &app{
		opts:   opts,
		svc:    service.NewConversionService(table, logger),
		out:    &writer{stdout: stdout, toStdout: opts.stdout, logger: logger},
		logger: logger,
	}
	code := a.convert(opts.paths)
	if !opts.watch || code == exitSourceMissing {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.watching = true
	err = watcher.New(opts.paths, logger).Watch(ctx, func(p string) {
		a.convert([]string{p})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "can't watch sources", "error", err)
		return exitInvalidSetup
	}
	return code
}

// app converts and writes the labs behind a set of paths
type app struct {
	opts   *options
	svc    *service.ConversionService
	out    *writer
	logger *slog.Logger
	// watching is set once the first pass is done; later passes never abort
	watching bool
}

func (a *app) convert(paths []string) int {
	var sources []loader.Source
	for _, p := range paths {
		found, err := loader.Load(p, a.logger)
		if errors.Is(err, loader.ErrSourceNotFound) {
			if a.watching {
				a.logger.Error("source file not found", "path", p)
			} else {
				fatal(a.logger, "source file not found", "path", p)
			}
			return exitSourceMissing
		}
		if err != nil {
			a.logger.Error("can't read source", "path", p, "error", err)
			continue
		}
		sources = append(sources, found...)
	}

	a.out.failed = false
	var results []service.Result
	if a.opts.format == codec.FormatText {
		results = a.svc.ImportAll(sources)
		a.out.writeText(results, codec.NewTextDumper(a.opts.all))
	} else {
		exporter, err := codec.ExporterFor(a.opts.format)
		if err != nil {
			fatal(a.logger, "can't export", "error", err)
			return exitInvalidSetup
		}
		results = a.svc.ConvertAll(sources)
		a.out.writeDocuments(results, exporter)
	}

	if a.out.failed || slices.ContainsFunc(results, service.Result.Failed) {
		return exitDocumentFailed
	}
	return exitOK
}

func dumpMapper(opts *options, stdout io.Writer, logger *slog.Logger) int {
	table, err := mapper.Default(logger)
	if err != nil {
		fatal(logger, "built-in mapper is broken", "error", err)
		return exitInvalidSetup
	}

	if opts.stdout || len(opts.paths) == 0 {
		if err := table.Dump(stdout); err != nil {
			fatal(logger, "can't dump mapper", "error", err)
			return exitInvalidSetup
		}
		return exitOK
	}

	target := opts.paths[0]
	logger.Warn("dumping the mapper", "path", target)
	if err := writeFile(target, table.Dump); err != nil {
		fatal(logger, "can't dump mapper", "path", target, "error", err)
		return exitInvalidSetup
	}
	return exitOK
}

func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), logging.LevelCritical, msg, args...)
}
