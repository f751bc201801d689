package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf})

	cl := l.Component("sessions")
	cl.Info().Str("user_id", "u1").Msg("sesión creada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sessions", line["component"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "sesión creada", line["message"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel_DesconocidoEsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("ruidoso"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
}
