package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Width is derived from the color's trailing marker and never stored on its
// own: the marker stays part of the color text.
type Width string

const (
	WidthRegular   Width = "regular"
	WidthWide      Width = "wide"
	WidthExtraWide Width = "extra_wide"
)

var (
	ErrInvalidStyle = errors.New("invalid style")
	ErrInvalidColor = errors.New("invalid color")
)

// Key is the canonical identity of one inventory item. Style is always a
// 6-character numeric string; Color keeps its width marker verbatim.
type Key struct {
	Style string
	Color string
	Width Width
}

func (k Key) ID() string {
	return k.Style + "_" + k.Color
}

// ParseWidth derives the width enum from a color's marker. Re-deriving from
// the stored color text always reproduces the same value.
func ParseWidth(color string) Width {
	lower := strings.ToLower(color)
	switch {
	case strings.Contains(lower, "(ww)"):
		return WidthExtraWide
	case strings.Contains(lower, "(w)"):
		return WidthWide
	default:
		return WidthRegular
	}
}

// Normalize canonicalizes a raw (style, color) pair. Styles may arrive as 5
// or 6 digits, optionally with a trailing w/ww width suffix glued onto the
// digits ("104437w"); the suffix moves into the color as its marker. The
// same function runs at ingest and at every lookup so comparisons are always
// on normalized text.
func Normalize(rawStyle, rawColor string) (Key, error) {
	style := strings.TrimSpace(rawStyle)
	color := strings.TrimSpace(rawColor)

	style, suffix := splitStyleSuffix(style)
	if !allDigits(style) || len(style) < 5 || len(style) > 6 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidStyle, rawStyle)
	}
	if len(style) == 5 {
		style = "0" + style
	}

	if color == "" {
		return Key{}, fmt.Errorf("%w: empty color for style %q", ErrInvalidColor, rawStyle)
	}
	if suffix != "" && ParseWidth(color) == WidthRegular {
		color = fmt.Sprintf("%s (%s)", color, suffix)
	}

	return Key{Style: style, Color: color, Width: ParseWidth(color)}, nil
}

// NormalizeStyle canonicalizes a bare style string for lookups that have no
// color (scan input, search filters).
func NormalizeStyle(rawStyle string) (string, error) {
	k, err := Normalize(rawStyle, "-")
	if err != nil {
		return "", err
	}
	return k.Style, nil
}

func splitStyleSuffix(style string) (string, string) {
	lower := strings.ToLower(style)
	switch {
	case strings.HasSuffix(lower, "ww") && allDigits(style[:len(style)-2]) && len(style) > 2:
		return style[:len(style)-2], "ww"
	case strings.HasSuffix(lower, "w") && allDigits(style[:len(style)-1]) && len(style) > 1:
		return style[:len(style)-1], "w"
	default:
		return style, ""
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
