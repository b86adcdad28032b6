package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aesdk/mlflowsdk/cmd/mlflowsdk/subcommands/logger"
)

func TestDefault(t *testing.T) {
	t.Run("it does not write debug messages unless verbose", func(t *testing.T) {
		buf := new(bytes.Buffer)
		l := logger.Default(buf, false)
		l.Debug("hidden")
		l.Info("shown")
		_ = l.Sync()

		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("debug message is written: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("info message is not written: %s", buf.String())
		}
	})

	t.Run("it writes debug messages when verbose", func(t *testing.T) {
		buf := new(bytes.Buffer)
		l := logger.Default(buf, true)
		l.Debug("shown")
		_ = l.Sync()

		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("debug message is not written: %s", buf.String())
		}
	})
}
