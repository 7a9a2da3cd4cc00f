package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Str("file", "a.js").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "file=a.js")

	buf.Reset()
	verbose := New(&buf, true)
	verbose.Debug().Msg("detail")
	assert.Contains(t, buf.String(), "detail")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("dropped")
}
