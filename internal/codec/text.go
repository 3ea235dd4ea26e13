package codec

import (
	"bufio"
	"fmt"
	"io"

	"eve2cml/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// BannerWidth is the width of the separator lines in stdout mode
const BannerWidth = 80

// TextDumper writes a human readable listing of a source lab. It shows the
// lab as parsed, before any link reconstruction.
type TextDumper struct {
	all bool
}

// NewTextDumper creates a text dumper. With all set, tasks, configs and
// config sets are listed too.
func NewTextDumper(all bool) *TextDumper {
	return &TextDumper{all: all}
}

// Format returns the codec format identifier
func (d *TextDumper) Format() string {
	return FormatText
}

// Extension returns the output file suffix
func (d *TextDumper) Extension() string {
	return ".txt"
}

// Dump writes the listing
func (d *TextDumper) Dump(lab *domain.Lab, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, ">>> Nodes <<<")
	for _, node := range lab.Topology.Nodes {
		fmt.Fprintln(bw, node)
		last := len(node.Interfaces) - 1
		for i, iface := range node.Interfaces {
			bullet := "|--"
			if i == last {
				bullet = `\__`
			}
			fmt.Fprintf(bw, "  %s %s\n", bullet, iface)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, ">>> Networks <<<")
	for _, network := range lab.Topology.Networks {
		fmt.Fprintln(bw, network)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, ">>> Text objects <<<")
	for _, obj := range lab.Objects.TextObjects {
		fmt.Fprintln(bw, obj)
	}
	fmt.Fprintln(bw)

	if d.all {
		d.dumpObjects(bw, lab.Objects)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text dump: %w", err)
	}
	return nil
}

func (d *TextDumper) dumpObjects(w io.Writer, objects *domain.Objects) {
	fmt.Fprintln(w, ">>> Tasks <<<")
	for _, task := range objects.Tasks {
		fmt.Fprintln(w, task)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, ">>> Configs <<<")
	for _, cfg := range objects.Configs {
		fmt.Fprintln(w, cfg)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, ">>> Config sets <<<")
	for _, set := range objects.ConfigSets {
		fmt.Fprintf(w, "Config Set ID: %s\n", set.ID)
		fmt.Fprintf(w, "Config Set Name: %s\n", set.Name)
		fmt.Fprintln(w, "Contained Configs:")
		for _, cfg := range set.Configs {
			fmt.Fprintln(w, cfg)
		}
		fmt.Fprintln(w)
	}
}

// CenteredLine returns a line of stars of the given width with name
// centered in it. The right side gets the extra star when the padding is
// uneven. An empty name gives a plain line of stars.
func CenteredLine(name string, cols int) string {
	if name != "" {
		name = " " + name + " "
	}
	return lipgloss.PlaceHorizontal(cols, lipgloss.Center, name, lipgloss.WithWhitespaceChars("*"))
}
