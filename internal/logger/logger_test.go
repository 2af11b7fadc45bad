package logger

import (
	"testing"

	"scorebook/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelFromConfig(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			l := New(&config.Config{LogLevel: tt.in})
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}
