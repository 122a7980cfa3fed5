package guest

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/tardis-games/abi"
)

// LogSink delivers a finished log line to the host.
type LogSink func(level abi.LogLevel, msg string)

type hostCore struct {
	zapcore.LevelEnabler
	enc  zapcore.Encoder
	sink LogSink
}

// NewHostCore returns a zapcore.Core that renders entries as single console
// lines and forwards them to sink. Time, level and caller are left to the
// host, which records its own.
func NewHostCore(sink LogSink, enab zapcore.LevelEnabler) zapcore.Core {
	cfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		NameKey:          "logger",
		StacktraceKey:    "stacktrace",
		LineEnding:       "\n",
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	return &hostCore{
		LevelEnabler: enab,
		enc:          zapcore.NewConsoleEncoder(cfg),
		sink:         sink,
	}
}

func (c *hostCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &hostCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		sink:         c.sink,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *hostCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *hostCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()
	c.sink(HostLevel(ent.Level), msg)
	return nil
}

func (c *hostCore) Sync() error {
	return nil
}

// HostLevel maps a zap level onto the host's log levels. Everything above
// error collapses to error.
func HostLevel(l zapcore.Level) abi.LogLevel {
	switch {
	case l < zapcore.InfoLevel:
		return abi.LogDebug
	case l == zapcore.InfoLevel:
		return abi.LogInfo
	case l == zapcore.WarnLevel:
		return abi.LogWarn
	default:
		return abi.LogError
	}
}

// ZapLevel is the inverse of HostLevel. Trace has no zap equivalent and maps
// to debug; unknown levels map to info.
func ZapLevel(l abi.LogLevel) zapcore.Level {
	switch l {
	case abi.LogTrace, abi.LogDebug:
		return zapcore.DebugLevel
	case abi.LogWarn:
		return zapcore.WarnLevel
	case abi.LogError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newHostLogger(sink LogSink) *zap.Logger {
	return zap.New(NewHostCore(sink, zapcore.DebugLevel))
}
