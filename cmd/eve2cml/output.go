package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"eve2cml/internal/codec"
	"eve2cml/internal/service"
)

// writer sends conversion results to files next to their sources, or to
// stdout
type writer struct {
	stdout   io.Writer
	toStdout bool
	logger   *slog.Logger
	failed   bool
}

func (w *writer) writeDocuments(results []service.Result, exporter codec.Exporter) {
	for _, r := range results {
		if r.Failed() {
			continue
		}
		target := r.Source.OutputPath(exporter.Extension())
		export := func(out io.Writer) error {
			return exporter.Export(r.Document, out)
		}

		if w.toStdout {
			fmt.Fprintln(w.stdout, codec.CenteredLine(target, codec.BannerWidth))
			w.check(target, export(w.stdout))
			fmt.Fprintln(w.stdout, codec.CenteredLine("", codec.BannerWidth))
			continue
		}
		w.check(target, writeFile(target, export))
	}
}

func (w *writer) writeText(results []service.Result, dumper *codec.TextDumper) {
	for _, r := range results {
		if r.Failed() {
			continue
		}
		dump := func(out io.Writer) error {
			return dumper.Dump(r.Lab, out)
		}

		if w.toStdout {
			w.check(r.Source.Name, dump(w.stdout))
			continue
		}
		w.check(r.Source.Name, writeFile(r.Source.OutputPath(dumper.Extension()), dump))
	}
}

func (w *writer) check(target string, err error) {
	if err != nil {
		w.logger.Error("can't write output", "target", target, "error", err)
		w.failed = true
		return
	}
	w.logger.Info("wrote output", "target", target)
}

// writeFile creates path and fills it with fn
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
