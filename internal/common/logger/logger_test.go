package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestInitSetsLevel(t *testing.T) {
	Init("test", false)
	require.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	Init("test", true)
	require.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}

func TestWrappersReturnEvents(t *testing.T) {
	Init("test", true)

	for name, event := range map[string]*zerolog.Event{
		"debug": Debug(),
		"info":  Info(),
		"warn":  Warn(),
		"error": Error(),
	} {
		require.NotNil(t, event, name)
		event.Msg("wrapper check")
	}
}
