package cydur

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Style names one of the built-in ladders.
type Style string

const (
	StyleDHMS  Style = "dhms"
	StyleWDHMS Style = "wdhms"
	StyleNS    Style = "ns"
)

var ErrUnknownStyle = errors.New("cydur: unknown style")

// ParseStyle accepts "dhms", "wdhms" or "ns", case-insensitively.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StyleDHMS, StyleWDHMS, StyleNS:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

func (s Style) ladder() Ladder {
	switch s {
	case StyleWDHMS:
		return wdhmsLadder
	case StyleNS:
		return nsLadder
	default:
		return dhmsLadder
	}
}

// Ladder returns a copy of the style's unit ladder. The zero Style and any
// unknown value use the day ladder.
func (s Style) Ladder() Ladder {
	return slices.Clone(s.ladder())
}

// Format renders value, counted in the style's base unit (nanoseconds for
// StyleNS, seconds otherwise).
func (s Style) Format(value uint64) string {
	return s.ladder().Format(value)
}

// Duration converts d to the style's base unit and formats it. Second based
// styles drop the sub-second remainder. Negative durations format as zero.
func (s Style) Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if s == StyleNS {
		return s.Format(uint64(d))
	}
	return s.Format(uint64(d / time.Second))
}

func (s Style) String() string {
	if s == "" {
		return string(StyleDHMS)
	}
	return string(s)
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	st, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
