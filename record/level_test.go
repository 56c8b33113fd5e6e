package record

import (
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error": ERROR,
		"WARN":  WARN,
		"Info":  INFO,
		"debug": DEBUG,
		"trace": TRACE,
		"1":     ERROR,
		"5":     TRACE,
		" info": INFO,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.True(t, errors.IsNotValid(err))
	_, err = ParseLevel("")
	assert.Error(t, err)
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, ERROR.Enabled(INFO))
	assert.True(t, INFO.Enabled(INFO))
	assert.False(t, DEBUG.Enabled(INFO))
	assert.True(t, TRACE.Enabled(TRACE))
	assert.False(t, TRACE.Enabled(ERROR))
}

func TestLevelText(t *testing.T) {
	text, err := WARN.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("DEBUG")))
	assert.Equal(t, DEBUG, l)
	assert.Error(t, l.UnmarshalText([]byte("loud")))
	assert.Equal(t, "UNKNOWN", Level(0).String())
}
