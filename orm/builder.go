package orm

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// QueryFragment 查询树中的每个节点都实现它：按从左到右的顺序写入 SQL 文本和绑定值
type QueryFragment interface {
	Build(b *Builder) error
}

// Query 最终交给驱动的 SQL 和参数，第 N 个占位符对应 Args[N-1]
type Query struct {
	SQL  string
	Args []BoundValue
}

// DriverArgs 转成 database/sql 可以直接使用的参数
func (q *Query) DriverArgs() []any {
	args := make([]any, len(q.Args))
	for i, arg := range q.Args {
		args[i] = arg
	}
	return args
}

// BoundValue 一个已经编码好的参数
type BoundValue struct {
	Tag  types.SqlType
	Meta backend.Metadata
	Raw  []byte
	Null bool
}

func (v BoundValue) Value() (driver.Value, error) {
	if v.Null {
		return nil, nil
	}
	return v.Meta.DriverValue(v.Raw)
}

func (v BoundValue) String() string {
	if v.Null {
		return v.Tag.Name() + ":NULL"
	}
	if v.Meta.Kind == backend.KindBytes {
		return fmt.Sprintf("%s:%x", v.Tag.Name(), v.Raw)
	}
	return v.Tag.Name() + ":" + string(v.Raw)
}

// Builder 累积 SQL 文本和参数
type Builder struct {
	backend backend.Backend
	sql     strings.Builder
	args    []BoundValue
	debug   bool
}

func NewBuilder(b backend.Backend) *Builder {
	return &Builder{backend: b}
}

func (b *Builder) Backend() backend.Backend {
	return b.backend
}

// IsDebug 调试渲染时不编码参数
func (b *Builder) IsDebug() bool {
	return b.debug
}

func (b *Builder) PushSQL(s string) {
	b.sql.WriteString(s)
}

func (b *Builder) PushIdentifier(name string) {
	b.sql.WriteString(b.backend.QuoteIdentifier(name))
}

// PushBoundValue 追加一个占位符和与之对应的参数
func (b *Builder) PushBoundValue(tag types.SqlType, raw []byte, isNull types.IsNull) error {
	meta, err := b.backend.TypeMetadata(tag)
	if err != nil {
		return err
	}
	v := BoundValue{Tag: tag, Meta: meta, Null: bool(isNull)}
	if !isNull {
		v.Raw = raw
	}
	b.args = append(b.args, v)
	b.sql.WriteString(b.backend.Placeholder(len(b.args)))
	return nil
}

func (b *Builder) SQL() string {
	return b.sql.String()
}

func (b *Builder) Args() []BoundValue {
	return b.args
}

// BuildQuery 对整棵树执行一次输出，出错时不返回任何部分结果
func BuildQuery(b backend.Backend, f QueryFragment) (*Query, error) {
	builder := NewBuilder(b)
	if err := f.Build(builder); err != nil {
		return nil, err
	}
	return &Query{SQL: builder.SQL(), Args: builder.Args()}, nil
}

var debugBackend = backend.NewDebug()

// DebugSQL 渲染成只用于日志的 SQL，占位符为 ?，不包含参数值
func DebugSQL(f QueryFragment) string {
	builder := NewBuilder(debugBackend)
	builder.debug = true
	if err := f.Build(builder); err != nil {
		return builder.SQL() + " -- " + err.Error()
	}
	return builder.SQL()
}
