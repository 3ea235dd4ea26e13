// Package loader finds the lab documents behind a command line argument.
// An argument is either a single .unl file or a ZIP archive of them.
package loader

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrSourceNotFound is returned when the given path does not exist
var ErrSourceNotFound = errors.New("source not found")

const (
	labExtension = ".unl"
	macOSXDir    = "__MACOSX"
	memberSep    = "--"
)

// Source is one lab document
type Source struct {
	// Name identifies the document in logs and lab metadata. For archive
	// members it is <dir>--<file>.
	Name string
	// Path is where outputs for this document go, minus the extension
	Path string
	Data []byte
}

// OutputPath returns the output file for this source with the given
// extension
func (s Source) OutputPath(ext string) string {
	return strings.TrimSuffix(s.Path, filepath.Ext(s.Path)) + ext
}

// Load reads the sources behind path. Unreadable archive members are logged
// and skipped.
func Load(p string, logger *slog.Logger) ([]Source, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
		}
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return []Source{{Name: p, Path: p, Data: data}}, nil
		}
		return nil, fmt.Errorf("failed to open archive %s: %w", p, err)
	}
	return fromArchive(zr, p, logger), nil
}

func fromArchive(zr *zip.Reader, archive string, logger *slog.Logger) []Source {
	baseDir := filepath.Dir(archive)
	sources := make([]Source, 0, len(zr.File))

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dir, file := path.Split(f.Name)
		dir = strings.TrimSuffix(dir, "/")
		if strings.HasPrefix(dir, macOSXDir) || !strings.HasSuffix(file, labExtension) {
			logger.Debug("skipping archive member", "archive", archive, "member", f.Name)
			continue
		}

		data, err := readMember(f)
		if err != nil {
			logger.Error("can't read archive member", "archive", archive, "member", f.Name, "error", err)
			continue
		}

		name := file
		if dir != "" {
			name = dir + memberSep + file
		}
		sources = append(sources, Source{
			Name: name,
			Path: filepath.Join(baseDir, strings.ReplaceAll(name, "/", memberSep)),
			Data: data,
		})
	}

	logger.Info("read archive", "archive", archive, "labs", len(sources))
	return sources
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
