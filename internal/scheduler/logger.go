package scheduler

import "go.uber.org/zap"

// logger adapts zap to gocron.Logger
type logger struct {
	log *zap.SugaredLogger
}

func newLogger(l *zap.Logger) *logger {
	return &logger{log: l.Named("gocron").Sugar()}
}

func (l *logger) Debug(msg string, args ...any) {
	l.log.Debugw(msg, args...)
}

func (l *logger) Error(msg string, args ...any) {
	l.log.Errorw(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.log.Infow(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.log.Warnw(msg, args...)
}
