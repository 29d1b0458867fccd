// SPDX-License-Identifier: EPL-2.0

// Package logging wraps a process-wide logrus logger. Every entry carries a
// category field so the dataset, store and report stages can be filtered.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category constants for consistent logging categories.
const (
	CategoryApp     = "App"
	CategoryDataset = "Dataset"
	CategoryStore   = "Store"
	CategoryReport  = "Report"
)

type Options struct {
	// Level is any level logrus.ParseLevel accepts. Empty means info.
	Level string
	// File, when set, receives a copy of every entry and is rotated.
	File string
	JSON bool
	// Console defaults to os.Stderr.
	Console io.Writer
}

var (
	mu     sync.Mutex
	logger = newLogger()
	rotor  *lumberjack.Logger
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	return l
}

// Init configures the shared logger. It may be called more than once; the
// previous log file is closed.
func Init(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(opts.Level); err != nil {
			return err
		}
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	mu.Lock()
	defer mu.Unlock()

	closeRotor()

	out := console
	if opts.File != "" {
		rotor = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
		}
		out = io.MultiWriter(console, rotor)
	}

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetLevel(level)
	logger.SetOutput(out)

	return nil
}

// Shutdown flushes and closes the log file, if any.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	closeRotor()
	logger.SetOutput(os.Stderr)
}

func closeRotor() {
	if rotor != nil {
		_ = rotor.Close()
		rotor = nil
	}
}

// For returns a logger that tags entries with category.
func For(category string) logrus.FieldLogger {
	return logger.WithField("category", category)
}

func Debug(category, msg string, fields logrus.Fields) {
	For(category).WithFields(fields).Debug(msg)
}

func Info(category, msg string, fields logrus.Fields) {
	For(category).WithFields(fields).Info(msg)
}

func Warning(category, msg string, fields logrus.Fields) {
	For(category).WithFields(fields).Warn(msg)
}

func Error(category, msg string, fields logrus.Fields) {
	For(category).WithFields(fields).Error(msg)
}
