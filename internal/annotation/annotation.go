// Package annotation turns EVE-NG text objects into CML annotations.
//
// A text object carries an HTML fragment whose outer div (class
// customShape) is absolutely positioned on the canvas. Text objects hold the
// text in nested paragraphs, shapes hold an SVG rect or ellipse.
package annotation

import (
	"log/slog"
	"strconv"
	"strings"

	"eve2cml/internal/cml"
	"eve2cml/internal/domain"

	"golang.org/x/net/html"
)

// Source text object types
const (
	TypeText   = "text"
	TypeSquare = "square"
	TypeCircle = "circle"
)

const (
	shapeClass       = "customShape"
	defaultFontSize  = 12
	defaultStroke    = 1
	minTextSize      = 8
	minThickness     = 1
	minExtent        = 10
	defaultFont      = "monospace"
	defaultTextUnit  = "pt"
	defaultTextColor = "#000000FF"
	defaultFill      = "#FFFFFFFF"
	defaultBorder    = "#000000FF"
	noColor          = "#00000000"
)

// Converter maps text objects to annotations
type Converter struct {
	logger *slog.Logger
}

// NewConverter creates a converter
func NewConverter(logger *slog.Logger) *Converter {
	return &Converter{logger: logger}
}

// ConvertAll converts every text object it understands, in source order.
// Objects of other types or without a positioned shape are skipped.
func (c *Converter) ConvertAll(objects []domain.TextObject) []cml.Annotation {
	out := make([]cml.Annotation, 0, len(objects))
	for _, obj := range objects {
		if a, ok := c.Convert(obj); ok {
			out = append(out, a)
		}
	}
	return out
}

// Convert converts one text object
func (c *Converter) Convert(obj domain.TextObject) (cml.Annotation, bool) {
	root, err := html.Parse(strings.NewReader(obj.Data))
	if err != nil {
		c.logger.Warn("can't parse text object", "id", obj.ID, "error", err)
		return nil, false
	}
	shape := findElement(root, func(n *html.Node) bool {
		return hasClass(n, shapeClass)
	})
	if shape == nil {
		c.logger.Warn("text object has no shape", "id", obj.ID, "type", obj.Type)
		return nil, false
	}
	b := newBox(ParseStyle(attr(shape, "style")))

	switch obj.Type {
	case TypeText:
		return c.text(shape, b), true
	case TypeSquare:
		return c.rectangle(shape, b), true
	case TypeCircle:
		return c.ellipse(shape, b), true
	}
	c.logger.Warn("unsupported text object type", "id", obj.ID, "type", obj.Type)
	return nil, false
}

// box is the placement of the outer shape div
type box struct {
	style    Style
	left     float64
	top      float64
	width    float64
	height   float64
	zIndex   int
	rotation int
}

func newBox(style Style) box {
	b := box{style: style, rotation: style.Rotation()}
	b.left, _ = style.Length("left")
	b.top, _ = style.Length("top")
	b.width, _ = style.Length("width")
	b.height, _ = style.Length("height")
	b.zIndex, _ = style.Int("z-index")
	return b
}

func (c *Converter) text(shape *html.Node, b box) cml.TextAnnotation {
	inner := make(Style)
	walk(shape, func(n *html.Node) {
		if n != shape && n.Type == html.ElementNode {
			inner.Merge(ParseStyle(attr(n, "style")))
		}
	})

	size, ok := inner.Length("font-size")
	if !ok {
		size = defaultFontSize
	}
	unit := unitOf(inner["font-size"])
	if unit == "" {
		unit = defaultTextUnit
	}
	font := strings.Trim(inner["font-family"], `"' `)
	if font == "" {
		font = defaultFont
	}

	return cml.TextAnnotation{
		Type:        cml.AnnotationText,
		BorderColor: c.color(inner["background-color"], noColor),
		BorderStyle: cml.BorderSolid,
		Color:       c.color(inner["color"], defaultTextColor),
		Rotation:    b.rotation,
		TextBold:    isBold(inner["font-weight"]),
		TextContent: strings.Join(strippedStrings(shape), "\n"),
		TextFont:    font,
		TextItalic:  inner["font-style"] == "italic",
		TextSize:    max(int(size), minTextSize),
		TextUnit:    unit,
		Thickness:   minThickness,
		X1:          b.left,
		Y1:          b.top,
		ZIndex:      b.zIndex,
	}
}

func (c *Converter) rectangle(shape *html.Node, b box) cml.ShapeAnnotation {
	el := findElement(shape, func(n *html.Node) bool { return n.Data == "rect" })
	a := c.shape(el, b, cml.AnnotationRectangle)
	a.X1 = b.left
	a.Y1 = b.top
	a.X2 = max(b.width, minExtent)
	a.Y2 = max(b.height, minExtent)
	if rx, ok := parseLength(attr(el, "rx")); ok {
		a.BorderRadius = int(rx)
	}
	return a
}

func (c *Converter) ellipse(shape *html.Node, b box) cml.ShapeAnnotation {
	el := findElement(shape, func(n *html.Node) bool { return n.Data == "ellipse" })
	a := c.shape(el, b, cml.AnnotationEllipse)
	rx := max(b.width/2, minExtent)
	ry := max(b.height/2, minExtent)
	a.X1 = b.left + b.width/2
	a.Y1 = b.top + b.height/2
	a.X2 = rx
	a.Y2 = ry
	return a
}

// shape fills the fields shared by rectangles and ellipses from the SVG
// element. el may be nil when the fragment has no SVG.
func (c *Converter) shape(el *html.Node, b box, kind string) cml.ShapeAnnotation {
	stroke, ok := parseLength(attr(el, "stroke-width"))
	if !ok {
		stroke = defaultStroke
	}
	return cml.ShapeAnnotation{
		Type:        kind,
		BorderColor: c.color(attr(el, "stroke"), defaultBorder),
		BorderStyle: borderStyle(attr(el, "stroke-dasharray")),
		Color:       c.color(attr(el, "fill"), defaultFill),
		Rotation:    b.rotation,
		Thickness:   max(int(stroke), minThickness),
		ZIndex:      b.zIndex,
	}
}

func (c *Converter) color(value, fallback string) string {
	if value == "" {
		return fallback
	}
	hex, err := ParseColor(value)
	if err != nil {
		c.logger.Debug("using fallback color", "value", value, "error", err)
		return fallback
	}
	return hex
}

// borderStyle maps an SVG dash array to a CML border style. Short dashes
// read as dots.
func borderStyle(dash string) string {
	first, _, _ := strings.Cut(strings.ReplaceAll(dash, " ", ","), ",")
	n, err := strconv.ParseFloat(first, 64)
	switch {
	case err != nil, n <= 0:
		return cml.BorderSolid
	case n <= 3:
		return cml.BorderDotted
	default:
		return cml.BorderDashed
	}
}

func isBold(weight string) bool {
	switch weight {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= 600
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && match(n) {
			found = n
		}
	})
	return found
}

// strippedStrings returns the non-blank text nodes below n, trimmed
func strippedStrings(n *html.Node) []string {
	var out []string
	walk(n, func(c *html.Node) {
		if c.Type != html.TextNode {
			return
		}
		if s := strings.TrimSpace(c.Data); s != "" {
			out = append(out, s)
		}
	})
	return out
}
