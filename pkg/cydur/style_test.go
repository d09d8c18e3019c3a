package cydur_test

import (
	"testing"
	"time"

	"github.com/fj1981/durakit/pkg/cydur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]cydur.Style{
		"dhms":    cydur.StyleDHMS,
		"WDHMS":   cydur.StyleWDHMS,
		" ns ":    cydur.StyleNS,
		"Ns":      cydur.StyleNS,
		"wdhms\n": cydur.StyleWDHMS,
	} {
		got, err := cydur.ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := cydur.ParseStyle("hms")
	assert.ErrorIs(t, err, cydur.ErrUnknownStyle)
	assert.Contains(t, err.Error(), `"hms"`)
}

func TestStyleFormat(t *testing.T) {
	assert.Equal(t, "69d10h40m", cydur.StyleDHMS.Format(6_000_000))
	assert.Equal(t, "9w6d10h40m", cydur.StyleWDHMS.Format(6_000_000))
	assert.Equal(t, "6ms", cydur.StyleNS.Format(6_000_000))

	var zero cydur.Style
	assert.Equal(t, "69d10h40m", zero.Format(6_000_000))
	assert.Equal(t, "dhms", zero.String())
}

func TestStyleDuration(t *testing.T) {
	d := 8*24*time.Hour + 1500*time.Millisecond
	assert.Equal(t, "8d1s", cydur.StyleDHMS.Duration(d))
	assert.Equal(t, "1w1d1s", cydur.StyleWDHMS.Duration(d))
	assert.Equal(t, "8d1s500ms", cydur.StyleNS.Duration(d))
	assert.Equal(t, "0ns", cydur.StyleNS.Duration(-d))
	assert.Equal(t, "0s", cydur.StyleWDHMS.Duration(-d))
}

func TestStyleText(t *testing.T) {
	var s cydur.Style
	require.NoError(t, s.UnmarshalText([]byte("WDHMS")))
	assert.Equal(t, cydur.StyleWDHMS, s)

	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "wdhms", string(b))

	assert.ErrorIs(t, s.UnmarshalText([]byte("years")), cydur.ErrUnknownStyle)
	assert.Equal(t, cydur.StyleWDHMS, s)
}
