package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogger(t *testing.T) {
	t.Cleanup(func() { log = nil })

	t.Run("uninitialized logger is a no-op", func(t *testing.T) {
		log = nil

		l := Logger()
		require.NotNil(t, l)
		assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
		assert.NotPanics(t, func() { l.Info("discarded") })
		assert.NoError(t, Sync())
	})

	t.Run("invalid level", func(t *testing.T) {
		log = nil

		assert.Error(t, Initialize("loud"))
		assert.Nil(t, log)
	})

	t.Run("initialized at level", func(t *testing.T) {
		require.NoError(t, Initialize("warn"))

		l := Logger()
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})
}
