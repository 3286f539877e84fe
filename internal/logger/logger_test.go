package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewNeverReturnsNil(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l := New("debug", pretty)
		assert.NotNil(t, l)
		l.Debug("probe")
	}
}

func TestFromZapForwardsLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Debug("d", String("k", "v"))
	l.Errorf("e %d", 1)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "v", entries[0].ContextMap()["k"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "e 1", entries[1].Message)
	}
}

func TestConsoleAndNop(t *testing.T) {
	assert.NotNil(t, Console())
	n := Nop()
	n.Info("discarded")
	assert.NoError(t, n.Sync())
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
