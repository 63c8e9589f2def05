package logger

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel 日志级别，数值越大越严重
type LogLevel int32

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l LogLevel) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel 解析配置里的级别名，大小写不敏感，未知的名字按 info 处理
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field 结构化日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 查询日志、代码生成器共用的日志接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithContext 附加上下文里的 trace 信息
	WithContext(ctx context.Context) Logger
	// WithFields 派生一个带固定字段的 Logger，派生出的实例与原实例共享级别
	WithFields(fields ...Field) Logger

	SetLevel(level LogLevel)
}

type Option func(*options)

type options struct {
	level      LogLevel
	out        io.Writer
	timeFormat string
	console    bool
}

func WithLevel(level LogLevel) Option {
	return func(o *options) { o.level = level }
}

func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func WithTimeFormat(format string) Option {
	return func(o *options) { o.timeFormat = format }
}

// WithConsole 输出给人看的格式而不是 JSON
func WithConsole() Option {
	return func(o *options) { o.console = true }
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

func Interface(key string, value any) Field { return Field{Key: key, Value: value} }

// FieldError 错误统一记录在 error 键下
func FieldError(err error) Field { return Field{Key: "error", Value: err} }

// SQL 语句文本
func SQL(query string) Field { return Field{Key: "sql", Value: query} }

// Backend 后端名字
func Backend(name string) Field { return Field{Key: "backend", Value: name} }

var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(holder{New()})
}

// holder 让 atomic.Value 总是存同一个具体类型
type holder struct{ Logger }

func Default() Logger {
	return defaultLogger.Load().(holder).Logger
}

// SetDefault 替换包级默认实例，nil 被忽略
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(holder{l})
}
