package database

import (
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/lol"

	"go.uber.org/atomic"
)

// logger adapts the lol levels to badger's Logger interface, with its own
// level so badger chatter can be quietened independently.
type logger struct {
	level atomic.Int32
}

func newLogger(level int) (l *logger) {
	l = &logger{}
	l.level.Store(int32(level))
	return
}

// SetLogLevel atomically adjusts the log level of the logger.
func (l *logger) SetLogLevel(level int) { l.level.Store(int32(level)) }

func (l *logger) Errorf(s string, i ...interface{}) {
	if l.level.Load() >= lol.Error {
		log.E.F(s, i...)
	}
}

func (l *logger) Warningf(s string, i ...interface{}) {
	if l.level.Load() >= lol.Warn {
		log.W.F(s, i...)
	}
}

func (l *logger) Infof(s string, i ...interface{}) {
	if l.level.Load() >= lol.Info {
		log.I.F(s, i...)
	}
}

func (l *logger) Debugf(s string, i ...interface{}) {
	if l.level.Load() >= lol.Debug {
		log.D.F(s, i...)
	}
}
