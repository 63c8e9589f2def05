package logger

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// zerologLogger 使用 zerolog 实现的日志记录器
type zerologLogger struct {
	zlog  zerolog.Logger
	level *atomic.Int32
}

// New 创建基于 zerolog 的 Logger，默认 info 级别、JSON 输出到 stderr
func New(opts ...Option) Logger {
	o := &options{level: InfoLevel, timeFormat: time.RFC3339}
	for _, opt := range opts {
		opt(o)
	}

	var out io.Writer = os.Stderr
	if o.out != nil {
		out = o.out
	}
	if o.console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: o.timeFormat, NoColor: true}
	}

	zerolog.TimeFieldFormat = o.timeFormat
	l := &zerologLogger{
		zlog:  zerolog.New(out).With().Timestamp().Logger(),
		level: new(atomic.Int32),
	}
	l.level.Store(int32(o.level))
	return l
}

func (l *zerologLogger) enabled(level LogLevel) bool {
	return LogLevel(l.level.Load()) <= level
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	if l.enabled(DebugLevel) {
		write(l.zlog.Debug(), msg, fields)
	}
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	if l.enabled(InfoLevel) {
		write(l.zlog.Info(), msg, fields)
	}
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	if l.enabled(WarnLevel) {
		write(l.zlog.Warn(), msg, fields)
	}
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	if l.enabled(ErrorLevel) {
		write(l.zlog.Error(), msg, fields)
	}
}

// WithContext 如果上下文中有 span，附加 trace_id 和 span_id
func (l *zerologLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return &zerologLogger{
		zlog: l.zlog.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger(),
		level: l.level,
	}
}

// WithFields 添加多个字段
func (l *zerologLogger) WithFields(fields ...Field) Logger {
	return &zerologLogger{
		zlog:  l.zlog.With().Fields(pairs(fields)).Logger(),
		level: l.level,
	}
}

func (l *zerologLogger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

func write(event *zerolog.Event, msg string, fields []Field) {
	if len(fields) > 0 {
		event = event.Fields(pairs(fields))
	}
	event.Msg(msg)
}

// pairs 展开成 zerolog 接受的 key, value 交替切片，error 值由 zerolog 转成字符串
func pairs(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
