package annotation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for colors that cannot be normalized
var ErrInvalidColor = errors.New("invalid color")

var rgbPattern = regexp.MustCompile(`^rgba?\(([^)]*)\)$`)

// ParseColor normalizes a CSS color to #RRGGBBAA. It understands rgb() and
// rgba() with an optional alpha, #rgb, #rrggbb, #rrggbbaa and transparent.
// An integer alpha is taken as a 0-255 value, a fractional one is scaled.
func ParseColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "transparent":
		return "#00000000", nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	}

	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	parts := strings.Split(m[1], ",")
	if len(parts) < 3 || len(parts) > 4 {
		return "", fmt.Errorf("%w: %q needs 3 or 4 components", ErrInvalidColor, s)
	}

	var rgba [4]int
	rgba[3] = 255
	for i, part := range parts[:3] {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return "", fmt.Errorf("%w: component %q of %q", ErrInvalidColor, part, s)
		}
		rgba[i] = v
	}
	if len(parts) == 4 {
		alpha, err := parseAlpha(strings.TrimSpace(parts[3]))
		if err != nil {
			return "", fmt.Errorf("%w: alpha of %q", ErrInvalidColor, s)
		}
		rgba[3] = alpha
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", rgba[0], rgba[1], rgba[2], rgba[3]), nil
}

func parseAlpha(s string) (int, error) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 || f > 1 {
			return 0, ErrInvalidColor
		}
		return int(math.Round(f * 255)), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, ErrInvalidColor
	}
	return v, nil
}

func parseHex(s string) (string, error) {
	digits := s[1:]
	switch len(digits) {
	case 3:
		var b strings.Builder
		for _, c := range digits {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		digits = b.String() + "ff"
	case 6:
		digits += "ff"
	case 8:
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return "#" + strings.ToUpper(digits), nil
}
