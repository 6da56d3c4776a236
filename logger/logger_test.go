package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, logging.WARNING)
	t.Cleanup(func() { InitLoggerWithWriter(os.Stderr, logging.INFO) })

	Infof("hidden %d", 1)
	Warningf("shown %d", 2)
	Error("broken")

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "WARNING - shown 2")
	assert.Contains(t, out, "ERROR - broken")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.DEBUG},
		{"DEBUG", logging.DEBUG},
		{"warn", logging.WARNING},
		{"error", logging.ERROR},
		{"", logging.INFO},
		{"loud", logging.INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
