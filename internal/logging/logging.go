// Package logging provides the leveled logger contract shared across the
// engine's packages, and a rotating file-backed implementation.
package logging

import (
	"fmt"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity levels, lowest to highest.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is implemented by anything that can record leveled, structured
// log lines. args are alternating key/value pairs, as in "width", 256.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	SetLevel(lvl int8)
	Log(lvl int8, msg string, args ...interface{})
}

// FileLogger writes leveled log lines to a rotating file using lumberjack.
// A zero-value FileLogger is not usable; use New.
type FileLogger struct {
	level  int8
	out    *log.Logger
	rotate *lumberjack.Logger
}

// Config controls the rotation policy of a FileLogger's backing file.
type Config struct {
	// Path is the log file location. Required.
	Path string
	// MaxSizeMB is the size in megabytes a log file may reach before rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files retained.
	MaxBackups int
	// MaxAgeDays is how long to retain rotated files.
	MaxAgeDays int
	// Level is the initial minimum severity that will be logged.
	Level int8
}

// New constructs a FileLogger per cfg.
func New(cfg Config) *FileLogger {
	rotate := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &FileLogger{
		level:  cfg.Level,
		out:    log.New(rotate, "", log.LstdFlags),
		rotate: rotate,
	}
}

// Close flushes and closes the underlying rotated file.
func (l *FileLogger) Close() error { return l.rotate.Close() }

func (l *FileLogger) SetLevel(lvl int8) { l.level = lvl }

func (l *FileLogger) Debug(msg string, args ...interface{})   { l.Log(Debug, msg, args...) }
func (l *FileLogger) Info(msg string, args ...interface{})    { l.Log(Info, msg, args...) }
func (l *FileLogger) Warning(msg string, args ...interface{}) { l.Log(Warning, msg, args...) }
func (l *FileLogger) Error(msg string, args ...interface{})   { l.Log(Error, msg, args...) }
func (l *FileLogger) Fatal(msg string, args ...interface{})   { l.Log(Fatal, msg, args...) }

func (l *FileLogger) Log(lvl int8, msg string, args ...interface{}) {
	if lvl < l.level {
		return
	}
	l.out.Print(format(levelName(lvl), msg, args))
}

func levelName(lvl int8) string {
	switch lvl {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func format(level, msg string, args []interface{}) string {
	s := level + ": " + msg
	if len(args) == 0 {
		return s
	}
	s += " ("
	for i := 0; i < len(args)-1; i += 2 {
		s += fmt.Sprintf(" %v:%q", args[i], fmt.Sprint(args[i+1]))
	}
	s += " )"
	return s
}

// Discard is a Logger that throws every line away; useful as a default so
// callers never need a nil check.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debug(string, ...interface{})        {}
func (discard) Info(string, ...interface{})         {}
func (discard) Warning(string, ...interface{})      {}
func (discard) Error(string, ...interface{})        {}
func (discard) Fatal(string, ...interface{})        {}
func (discard) SetLevel(int8)                       {}
func (discard) Log(int8, string, ...interface{})    {}
