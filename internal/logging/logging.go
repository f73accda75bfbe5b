// Package logging builds the process logger from config.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Level is a logrus level name; empty means info.
	Level string
	// File, when set, sends logs to a rotated file instead of Fallback.
	File string
	// Fallback receives logs when File is empty. Nil discards them.
	Fallback io.Writer
	// JSON selects logrus.JSONFormatter over the text formatter.
	JSON bool
}

// New returns a configured logger and a close func that flushes the rotated file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	l := logrus.New()
	closeFn := func() error { return nil }

	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, closeFn, fmt.Errorf("invalid log level %q: %w", s, err)
		}
		lvl = parsed
	}
	l.SetLevel(lvl)

	switch {
	case strings.TrimSpace(opts.File) != "":
		path := strings.TrimSpace(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, closeFn, err
		}
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		l.SetOutput(lj)
		closeFn = lj.Close
	case opts.Fallback != nil:
		l.SetOutput(opts.Fallback)
	default:
		l.SetOutput(io.Discard)
	}

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: opts.File != ""})
	}
	return l, closeFn, nil
}

// Discard is a logger that drops everything; handy default for library code and tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
