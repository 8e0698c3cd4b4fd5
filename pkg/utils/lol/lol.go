// Package lol (log of lantern) is a simple leveled logger with colorized
// level tags, code locations on the higher levels, a closure form for log
// statements that are expensive to render, and error checkers that log and
// report in one expression.
package lol

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

// Log levels. Off disables all output, Trace enables everything.
const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

// LevelNames are the recognised names for log levels as used in
// configuration strings, indexed by level.
var LevelNames = []string{
	"off", "fatal", "error", "warn", "info", "debug", "trace",
}

var colorizers = []func(a ...any) string{
	nil,
	color.New(color.FgRed, color.Bold).Sprint,
	color.New(color.FgRed).Sprint,
	color.New(color.FgYellow).Sprint,
	color.New(color.FgGreen).Sprint,
	color.New(color.FgCyan).Sprint,
	color.New(color.FgHiBlue).Sprint,
}

var currentLevel atomic.Int32

// SetLogLevel sets the global log level from its name. Unrecognised names
// leave the level at Info.
func SetLogLevel(level string) {
	currentLevel.Store(int32(GetLogLevel(level)))
}

// GetLogLevel returns the level number for a level name.
func GetLogLevel(level string) (l int) {
	l = Info
	for i, v := range LevelNames {
		if strings.EqualFold(level, v) {
			l = i
			return
		}
	}
	return
}

// Level returns the currently active log level.
func Level() int { return int(currentLevel.Load()) }

// Ln is a println-style log printer.
type Ln func(a ...any)

// F is a printf-style log printer.
type F func(format string, a ...any)

// S is a spew-dump log printer for examining data structures.
type S func(a ...any)

// C is a closure log printer; the closure only runs if the level is active.
type C func(closure func() string)

// Chk logs an error with its code location if it is not nil, and returns
// whether it was.
type Chk func(err error) bool

// LevelPrinter bundles the printer forms for one log level.
type LevelPrinter struct {
	Ln Ln
	F  F
	S  S
	C  C
}

// Logger is a set of level printers.
type Logger struct {
	F, E, W, I, D, T LevelPrinter
}

// Checker is a set of level error checkers.
type Checker struct {
	F, E, W, I, D, T Chk
}

// Lol is a logger and checker pair sharing one output.
type Lol struct {
	Log   *Logger
	Check *Checker
}

// Main is the default logger used by the log and chk shortcut packages.
var Main = New()

func init() { currentLevel.Store(Info) }

func timeStamp() string { return time.Now().Format("15:04:05.000000") }

func location(skip int) (loc string) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return
	}
	// trim to the last two path segments, enough to identify the source
	split := strings.Split(file, "/")
	if len(split) > 2 {
		file = strings.Join(split[len(split)-2:], "/")
	}
	loc = fmt.Sprintf("%s:%d", file, line)
	return
}

func emit(level int, loc, text string) {
	tag := strings.ToUpper(LevelNames[level][:1])
	if colorizers[level] != nil {
		tag = colorizers[level](tag)
	}
	fmt.Fprintf(
		os.Stderr, "%s %s %s %s\n", timeStamp(), tag,
		strings.TrimRight(text, "\n"), loc,
	)
}

func printer(level int) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...any) {
			if Level() < level {
				return
			}
			emit(level, location(2), fmt.Sprintln(a...))
		},
		F: func(format string, a ...any) {
			if Level() < level {
				return
			}
			emit(level, location(2), fmt.Sprintf(format, a...))
		},
		S: func(a ...any) {
			if Level() < level {
				return
			}
			emit(level, location(2), spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if Level() < level {
				return
			}
			emit(level, location(2), closure())
		},
	}
}

func checker(level int) Chk {
	return func(err error) bool {
		if err == nil {
			return false
		}
		if Level() >= level {
			emit(level, location(2), err.Error())
		}
		return true
	}
}

// New creates a new Lol with one printer and checker per level.
func New() (l *Lol) {
	return &Lol{
		Log: &Logger{
			F: printer(Fatal), E: printer(Error), W: printer(Warn),
			I: printer(Info), D: printer(Debug), T: printer(Trace),
		},
		Check: &Checker{
			F: checker(Fatal), E: checker(Error), W: checker(Warn),
			I: checker(Info), D: checker(Debug), T: checker(Trace),
		},
	}
}
