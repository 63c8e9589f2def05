package orm

import (
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Table 一张表，T 是这张表独有的标记类型，用来区分查询源。
// 表和列在包初始化时声明，之后只读，可以并发使用。
type Table[T any] struct {
	meta *tableMeta
}

type tableMeta struct {
	name       string
	primaryKey string
	columns    []*column
	noSelect   []*column
}

func (m *tableMeta) Build(b *Builder) error {
	b.PushIdentifier(m.name)
	return nil
}

func (m *tableMeta) lookup(name string) (*column, bool) {
	for _, c := range m.columns {
		if c.name == name {
			return c, true
		}
	}
	for _, c := range m.noSelect {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

type column struct {
	table      *tableMeta
	name       string
	tag        types.SqlType
	selectable bool
}

func (c *column) Build(b *Builder) error {
	b.PushIdentifier(c.table.name)
	b.PushSQL(".")
	b.PushIdentifier(c.name)
	return nil
}

func (c *column) info() ColumnInfo {
	return ColumnInfo{
		Table:      c.table.name,
		Name:       c.name,
		Type:       c.tag,
		Selectable: c.selectable,
	}
}

// ColumnInfo 列的运行时描述
type ColumnInfo struct {
	Table      string
	Name       string
	Type       types.SqlType
	Selectable bool
}

// TableOption 声明表时的配置项
type TableOption func(m *tableMeta)

// WithPrimaryKey 指定主键列名，默认为 id
func WithPrimaryKey(name string) TableOption {
	return func(m *tableMeta) {
		m.primaryKey = name
	}
}

// NewTable 声明一张表
func NewTable[T any](name string, opts ...TableOption) *Table[T] {
	if name == "" {
		panic(ferr.ErrEmptyIdentifier)
	}
	m := &tableMeta{name: name, primaryKey: "id"}
	for _, opt := range opts {
		opt(m)
	}
	return &Table[T]{meta: m}
}

// NewColumn 声明一个列，列按声明顺序进入 AllColumns
func NewColumn[ST types.SqlType, T any](t *Table[T], name string) Expr[T, ST] {
	var tag ST
	c := t.declare(name, tag, true)
	t.meta.columns = append(t.meta.columns, c)
	return Expr[T, ST]{node: c}
}

// NewNoSelectColumn 声明一个不在 AllColumns 中的列，仍然可以按名字单独查询
func NewNoSelectColumn[ST types.SqlType, T any](t *Table[T], name string) Expr[T, ST] {
	var tag ST
	c := t.declare(name, tag, false)
	t.meta.noSelect = append(t.meta.noSelect, c)
	return Expr[T, ST]{node: c}
}

func (t *Table[T]) declare(name string, tag types.SqlType, selectable bool) *column {
	if name == "" {
		panic(ferr.ErrEmptyIdentifier)
	}
	if _, ok := t.meta.lookup(name); ok {
		panic(ferr.ErrDuplicateColumn(t.meta.name, name))
	}
	return &column{table: t.meta, name: name, tag: tag, selectable: selectable}
}

func (t *Table[T]) Name() string {
	return t.meta.name
}

func (t *Table[T]) PrimaryKey() string {
	return t.meta.primaryKey
}

// Columns 默认查询的列，按声明顺序
func (t *Table[T]) Columns() []ColumnInfo {
	res := make([]ColumnInfo, 0, len(t.meta.columns))
	for _, c := range t.meta.columns {
		res = append(res, c.info())
	}
	return res
}

// Column 按名字查找列，包括 no select 列
func (t *Table[T]) Column(name string) (ColumnInfo, bool) {
	c, ok := t.meta.lookup(name)
	if !ok {
		return ColumnInfo{}, false
	}
	return c.info(), true
}

// AllColumns 默认的 SELECT 列表
func (t *Table[T]) AllColumns() Expr[T, types.Record[T]] {
	list := make(listNode, 0, len(t.meta.columns))
	for _, c := range t.meta.columns {
		list = append(list, c)
	}
	return Expr[T, types.Record[T]]{node: list}
}

func (t *Table[T]) Star() Star[T] {
	return Star[T]{table: t.meta}
}

// Count COUNT(*)
func (t *Table[T]) Count() Aggregate[T, types.BigInt] {
	return Aggregate[T, types.BigInt]{node: &funcNode{name: "COUNT"}}
}

// Build 作为 FROM 子句输出表名
func (t *Table[T]) Build(b *Builder) error {
	return t.meta.Build(b)
}

func (t *Table[T]) sourceOf() T {
	var zero T
	return zero
}

// Star 表示 table.*，类型为 Void，不能直接作为有类型的 SELECT 列表
type Star[T any] struct {
	table *tableMeta
}

func (s Star[T]) Build(b *Builder) error {
	b.PushIdentifier(s.table.name)
	b.PushSQL(".*")
	return nil
}

func (Star[T]) SqlType() types.Void {
	return types.Void{}
}
