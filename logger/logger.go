// Package logger provides the process-wide leveled logger used by the blog
// service, backed by op/go-logging.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

const (
	module     = "reeltalk"
	timeFormat = "2006/01/02 15:04:05"
)

var logger *logging.Logger

func init() {
	InitLoggerWithWriter(os.Stderr, logging.INFO)
}

// InitLogger sends log output to stderr at the given level.
func InitLogger(level logging.Level) {
	InitLoggerWithWriter(os.Stderr, level)
}

// InitLoggerWithWriter sends log output to w at the given level.
func InitLoggerWithWriter(w io.Writer, level logging.Level) {
	newLogger := logging.MustGetLogger(module)

	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, newFormatter())
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, module)

	newLogger.SetBackend(leveled)
	logger = newLogger
}

// ParseLevel maps a config string such as "debug" or "warn" to a level.
// Unknown values fall back to INFO.
func ParseLevel(s string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return logging.WARNING
	case "":
		return logging.INFO
	}
	level, err := logging.LogLevel(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", s)
		return logging.INFO
	}
	return level
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level} - %{message}`)
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
