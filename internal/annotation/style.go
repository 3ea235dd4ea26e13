package annotation

import (
	"regexp"
	"strconv"
	"strings"
)

var rotatePattern = regexp.MustCompile(`rotate\(\s*(-?[0-9.]+)\s*deg\s*\)`)

// Style is a parsed CSS declaration list
type Style map[string]string

// ParseStyle splits an inline style attribute into declarations. Keys are
// lower-cased, malformed declarations are skipped.
func ParseStyle(s string) Style {
	style := make(Style)
	for _, decl := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		style[key] = strings.TrimSpace(value)
	}
	return style
}

// Merge copies declarations from other, overriding existing keys
func (s Style) Merge(other Style) {
	for k, v := range other {
		s[k] = v
	}
}

// Length returns a CSS length in pixels. The unit suffix is dropped.
func (s Style) Length(key string) (float64, bool) {
	return parseLength(s[key])
}

// Int returns an integer property such as z-index
func (s Style) Int(key string) (int, bool) {
	v, ok := parseLength(s[key])
	return int(v), ok
}

// Rotation extracts N from a transform of the form rotate(Ndeg)
func (s Style) Rotation() int {
	m := rotatePattern.FindStringSubmatch(s["transform"])
	if m == nil {
		return 0
	}
	deg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return int(deg)
}

func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	for _, unit := range []string{"px", "pt", "em", "%"} {
		v = strings.TrimSuffix(v, unit)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// unitOf returns the CSS unit of a length, if it is one CML knows
func unitOf(v string) string {
	v = strings.TrimSpace(v)
	for _, unit := range []string{"px", "pt", "em"} {
		if strings.HasSuffix(v, unit) {
			return unit
		}
	}
	return ""
}
