package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "json", &buf)
	l.Info().Msg("hidden")
	l.Warn().Str("component", "api").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"api"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("loud", "", &buf)
	l.Debug().Msg("debug")
	l.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	l.Error().Msg("nowhere")
}
