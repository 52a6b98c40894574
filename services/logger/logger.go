package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps LOG_LEVEL values; unknown values fall back to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implement Logger interface sử dụng log package
type DefaultLogger struct {
	level Level
	out   *log.Logger
	tags  map[Level]string
}

// NewDefaultLogger tạo một instance mới của DefaultLogger ghi ra stdout
func NewDefaultLogger(level Level) *DefaultLogger {
	return newLogger(level, os.Stdout, true)
}

// NewFileLogger writes to stdout and to logs/<name>-<date>.log. Level tags
// are only colored on the terminal side.
func NewFileLogger(level Level, dir, name string) (*DefaultLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	return newLogger(level, io.MultiWriter(os.Stdout, f), false), nil
}

// NewWriterLogger is used by tests to capture output.
func NewWriterLogger(level Level, w io.Writer) *DefaultLogger {
	return newLogger(level, w, false)
}

func newLogger(level Level, w io.Writer, colored bool) *DefaultLogger {
	tags := map[Level]string{
		DebugLevel: "[DEBUG]",
		InfoLevel:  "[INFO]",
		WarnLevel:  "[WARN]",
		ErrorLevel: "[ERROR]",
	}
	if colored {
		tags[DebugLevel] = color.New(color.FgCyan).Sprint(tags[DebugLevel])
		tags[InfoLevel] = color.New(color.FgGreen).Sprint(tags[InfoLevel])
		tags[WarnLevel] = color.New(color.FgYellow).Sprint(tags[WarnLevel])
		tags[ErrorLevel] = color.New(color.FgRed, color.Bold).Sprint(tags[ErrorLevel])
	}
	return &DefaultLogger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
		tags:  tags,
	}
}

func (l *DefaultLogger) write(level Level, format string, v ...interface{}) {
	if l.level <= level {
		l.out.Printf(l.tags[level]+" "+format, v...)
	}
}

// Info log thông tin
func (l *DefaultLogger) Info(format string, v ...interface{}) {
	l.write(InfoLevel, format, v...)
}

// Warn log cảnh báo
func (l *DefaultLogger) Warn(format string, v ...interface{}) {
	l.write(WarnLevel, format, v...)
}

// Error log lỗi
func (l *DefaultLogger) Error(format string, v ...interface{}) {
	l.write(ErrorLevel, format, v...)
}

// Debug log debug
func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	l.write(DebugLevel, format, v...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
func (Nop) Debug(string, ...interface{}) {}
