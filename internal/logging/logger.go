// Package logging provides structured logging for termdemo.
//
// Two logger variants are available:
//   - Logger: non-sugared zap.Logger for the replay engine (structured fields)
//   - SugaredLogger: printf-style logging for the CLI
//
// The TUI owns the terminal while it runs, so interactive commands log to a
// file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/termdemo/internal/replay"
)

// Logger provides structured logging with sequence context.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// ParseLevel maps debug, info, warn and error to zap levels.
func ParseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New creates a JSON logger writing to w.
func New(w io.Writer, level zapcore.Level, fields ...zap.Field) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return &Logger{zap: zap.New(core).With(fields...)}
}

// NewStderr creates a logger writing to os.Stderr.
func NewStderr(level zapcore.Level) *Logger {
	return New(os.Stderr, level)
}

// NewFile creates a logger appending to path. The returned closer must be
// called when done.
func NewFile(path string, level zapcore.Level) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// With returns a logger with additional fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

// ForSequence tags every entry with the sequence name.
func (l *Logger) ForSequence(name string) *Logger {
	return l.With(zap.String("sequence", name))
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.zap.Sync() }

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

func (s *SugaredLogger) Debugf(template string, args ...any) { s.sugar.Debugf(template, args...) }
func (s *SugaredLogger) Infof(template string, args ...any)  { s.sugar.Infof(template, args...) }
func (s *SugaredLogger) Warnf(template string, args ...any)  { s.sugar.Warnf(template, args...) }
func (s *SugaredLogger) Errorf(template string, args ...any) { s.sugar.Errorf(template, args...) }

// Observer adapts the logger to driver events. Frames are logged at debug
// level only when frames is true since a typed command emits one per rune.
func (l *Logger) Observer(frames bool) replay.Observer {
	return replay.ObserverFunc(func(e replay.Event) {
		fields := []zap.Field{
			zap.String("event", e.Type.String()),
			zap.Int("pass", e.Pass),
			zap.Int("step", e.Index),
		}
		switch e.Type {
		case replay.EventFrame:
			if frames {
				l.zap.Debug("frame", append(fields, zap.String("text", e.Text))...)
			}
		case replay.EventStaleToken, replay.EventStartRejected:
			l.zap.Debug("ignored", fields...)
		case replay.EventPassStarted, replay.EventCooldown, replay.EventStopped:
			l.zap.Info("driver", fields...)
		default:
			l.zap.Debug("driver", fields...)
		}
	})
}

// Multi fans one event out to several observers.
func Multi(obs ...replay.Observer) replay.Observer {
	return replay.ObserverFunc(func(e replay.Event) {
		for _, o := range obs {
			if o != nil {
				o.OnEvent(e)
			}
		}
	})
}
