// Package logx is the levelled, concurrency-safe logger shared by every
// scheduler task, producer, and the receiver pipeline.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/rs/xid"
)

// Level enumerates severity tiers.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Logger is a levelled wrapper around the standard logger. Every line it
// writes carries the process's session ID, so log lines from concurrent
// runs collected into one place (e.g. a shared log file across restarts)
// can be told apart without parsing timestamps.
type Logger struct {
	mu        sync.Mutex
	level     Level
	inner     *log.Logger
	file      *os.File
	sessionID string
}

var (
	global  *Logger
	initOne sync.Once
)

// Init creates the singleton logger. Call once at startup; safe to call
// more than once, only the first call takes effect.
func Init(minLevel Level, logFilePath string) *Logger {
	initOne.Do(func() {
		writers := []io.Writer{os.Stdout}

		var f *os.File
		if logFilePath != "" {
			var err error
			f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				writers = append(writers, f)
			} else {
				log.Printf("[WARN] could not open log file %s: %v", logFilePath, err)
			}
		}

		global = &Logger{
			level:     minLevel,
			inner:     log.New(io.MultiWriter(writers...), "", 0),
			file:      f,
			sessionID: xid.New().String(),
		}
	})
	return global
}

// L returns the global logger, lazily initialising an Info/stdout logger
// if Init was never called.
func L() *Logger {
	if global == nil {
		return Init(Info, "")
	}
	return global
}

// SessionID returns the random correlation ID stamped on every line this
// logger writes.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
}

func (l *Logger) log(lvl Level, format string, args ...any) {
	if lvl < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.inner.Printf("[%s] %s %s  %s", lvl, l.sessionID, ts, msg)
	l.mu.Unlock()
}

func (l *Logger) Debug(f string, a ...any) { l.log(Debug, f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.log(Info, f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.log(Warn, f, a...) }
func (l *Logger) Error(f string, a ...any) { l.log(Error, f, a...) }
