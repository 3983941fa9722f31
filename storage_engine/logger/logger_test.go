package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(LevelWarn))

	l.Info("dropped")
	l.Warn("kept %d", 1)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "[WARN] kept 1")
}

func TestFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf)).
		WithField("component", "BufferPool").
		WithFields(map[string]interface{}{"b": 2, "a": 1})

	l.Info("hit")
	assert.Contains(t, buf.String(), "[INFO] [BufferPool] a=1 b=2 hit")
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := New(WithOutput(&buf))
	child := parent.WithField("component", "x")

	parent.SetLevel(LevelError)
	child.Info("quiet")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelError, child.GetLevel())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
