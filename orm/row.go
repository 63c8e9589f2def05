package orm

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/codec"
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Row 一行原始列值，nil 表示 NULL，按顺序被读取器消费
type Row struct {
	backend backend.Backend
	columns []string
	values  [][]byte
	pos     int
}

func NewRow(b backend.Backend, columns []string, values [][]byte) *Row {
	return &Row{backend: b, columns: columns, values: values}
}

func (r *Row) Backend() backend.Backend {
	return r.backend
}

// Column 第 index 列的列名
func (r *Row) Column(index int) string {
	if index < len(r.columns) {
		return r.columns[index]
	}
	return ""
}

// Take 取出下一列
func (r *Row) Take() ([]byte, int, error) {
	if r.pos >= len(r.values) {
		return nil, r.pos, fmt.Errorf("orm: row has only %d columns", len(r.values))
	}
	idx := r.pos
	r.pos++
	return r.values[idx], idx, nil
}

// Peek 查看接下来的 n 列但不消费
func (r *Row) Peek(n int) [][]byte {
	end := min(r.pos+n, len(r.values))
	return r.values[r.pos:end]
}

// Skip 跳过 n 列
func (r *Row) Skip(n int) {
	r.pos = min(r.pos+n, len(r.values))
}

// Remaining 尚未读取的列数
func (r *Row) Remaining() int {
	return len(r.values) - r.pos
}

// RowReader 把 Width 个列值解码成宿主类型 V，ST 必须与语句的行类型一致
type RowReader[ST types.SqlType, V any] interface {
	// SqlType 读取器对应的行类型，读取器与语句之间靠它做类型检查
	SqlType() ST
	Width() int
	Read(row *Row) (V, error)
}

// ReadRow 读取一整行，列必须恰好被读完
func ReadRow[ST types.SqlType, V any](reader RowReader[ST, V], row *Row) (V, error) {
	var zero V
	if row.Remaining() != reader.Width() {
		return zero, ferr.ErrColumnCount(reader.Width(), row.Remaining())
	}
	return reader.Read(row)
}

// Scalar 单列读取器
func Scalar[ST types.SqlType, V any](c codec.Codec[ST, V]) RowReader[ST, V] {
	return scalarReader[ST, V]{c: c}
}

type scalarReader[ST types.SqlType, V any] struct {
	c codec.Codec[ST, V]
}

func (scalarReader[ST, V]) SqlType() ST {
	var tag ST
	return tag
}

func (scalarReader[ST, V]) Width() int { return 1 }

func (s scalarReader[ST, V]) Read(row *Row) (V, error) {
	return decodeColumn(s.c, row)
}

func decodeColumn[ST types.SqlType, V any](c codec.Codec[ST, V], row *Row) (V, error) {
	var zero V
	raw, idx, err := row.Take()
	if err != nil {
		return zero, err
	}
	if raw == nil {
		if na, ok := c.(codec.NullAware); !ok || !na.AcceptsNull() {
			return zero, ferr.NewUnexpectedNull(idx, row.Column(idx))
		}
	}
	v, err := c.FromSql(raw, row.backend)
	if err != nil {
		var de *ferr.DecodeError
		if errors.As(err, &de) && de.Column == "" {
			de.Column = row.Column(idx)
		}
		return zero, err
	}
	return v, nil
}

type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

func ReadPair[A, B types.SqlType, VA, VB any](ra RowReader[A, VA], rb RowReader[B, VB]) RowReader[types.Tuple2[A, B], Pair[VA, VB]] {
	return pairReader[A, B, VA, VB]{ra: ra, rb: rb}
}

type pairReader[A, B types.SqlType, VA, VB any] struct {
	ra RowReader[A, VA]
	rb RowReader[B, VB]
}

func (pairReader[A, B, VA, VB]) SqlType() types.Tuple2[A, B] { return types.Tuple2[A, B]{} }

func (p pairReader[A, B, VA, VB]) Width() int { return p.ra.Width() + p.rb.Width() }

func (p pairReader[A, B, VA, VB]) Read(row *Row) (Pair[VA, VB], error) {
	var res Pair[VA, VB]
	var err error
	if res.First, err = p.ra.Read(row); err != nil {
		return Pair[VA, VB]{}, err
	}
	if res.Second, err = p.rb.Read(row); err != nil {
		return Pair[VA, VB]{}, err
	}
	return res, nil
}

func ReadTriple[A, B, C types.SqlType, VA, VB, VC any](ra RowReader[A, VA], rb RowReader[B, VB], rc RowReader[C, VC]) RowReader[types.Tuple3[A, B, C], Triple[VA, VB, VC]] {
	return tripleReader[A, B, C, VA, VB, VC]{ra: ra, rb: rb, rc: rc}
}

type tripleReader[A, B, C types.SqlType, VA, VB, VC any] struct {
	ra RowReader[A, VA]
	rb RowReader[B, VB]
	rc RowReader[C, VC]
}

func (tripleReader[A, B, C, VA, VB, VC]) SqlType() types.Tuple3[A, B, C] {
	return types.Tuple3[A, B, C]{}
}

func (t tripleReader[A, B, C, VA, VB, VC]) Width() int {
	return t.ra.Width() + t.rb.Width() + t.rc.Width()
}

func (t tripleReader[A, B, C, VA, VB, VC]) Read(row *Row) (Triple[VA, VB, VC], error) {
	var res Triple[VA, VB, VC]
	var err error
	if res.First, err = t.ra.Read(row); err != nil {
		return Triple[VA, VB, VC]{}, err
	}
	if res.Second, err = t.rb.Read(row); err != nil {
		return Triple[VA, VB, VC]{}, err
	}
	if res.Third, err = t.rc.Read(row); err != nil {
		return Triple[VA, VB, VC]{}, err
	}
	return res, nil
}

// ReadOptional 多列的可空读取器，例如左外连接右侧表的 AllColumns。
// 所有列都为 NULL 时结果为空，否则交给内层读取器。
func ReadOptional[ST types.NotNull, V any](r RowReader[ST, V]) RowReader[types.Nullable[ST], sql.Null[V]] {
	return optionalReader[ST, V]{r: r}
}

type optionalReader[ST types.NotNull, V any] struct {
	r RowReader[ST, V]
}

func (optionalReader[ST, V]) SqlType() types.Nullable[ST] { return types.Nullable[ST]{} }

func (o optionalReader[ST, V]) Width() int { return o.r.Width() }

func (o optionalReader[ST, V]) Read(row *Row) (sql.Null[V], error) {
	allNull := true
	for _, raw := range row.Peek(o.r.Width()) {
		if raw != nil {
			allNull = false
			break
		}
	}
	if allNull {
		row.Skip(o.r.Width())
		return sql.Null[V]{}, nil
	}
	v, err := o.r.Read(row)
	if err != nil {
		return sql.Null[V]{}, err
	}
	return sql.Null[V]{V: v, Valid: true}, nil
}

// Field Record 读取器中的一列
type Field[T, V any] struct {
	column *column
	read   func(row *Row, dst *V) error
}

// FieldOf 用编解码器读取 col 并通过 set 写入 V
func FieldOf[T any, ST types.SqlType, F any, V any](col Expr[T, ST], c codec.Codec[ST, F], set func(dst *V, v F)) Field[T, V] {
	cl, ok := col.node.(*column)
	if !ok {
		panic(ferr.ErrInvalidColumn(DebugSQL(col)))
	}
	return Field[T, V]{
		column: cl,
		read: func(row *Row, dst *V) error {
			v, err := decodeColumn(c, row)
			if err != nil {
				return err
			}
			set(dst, v)
			return nil
		},
	}
}

// Record 读取表的 AllColumns。
// 字段与列的对应关系在构造时校验，顺序或数量不一致会 panic。
func Record[T, V any](t *Table[T], fields ...Field[T, V]) RowReader[types.Record[T], V] {
	cols := t.meta.columns
	if len(fields) != len(cols) {
		panic(ferr.ErrColumnCount(len(cols), len(fields)))
	}
	for i, f := range fields {
		if f.column != cols[i] {
			panic(ferr.ErrRecordField(t.meta.name, i, cols[i].name, f.column.name))
		}
	}
	return recordReader[T, V]{fields: fields}
}

type recordReader[T, V any] struct {
	fields []Field[T, V]
}

func (recordReader[T, V]) SqlType() types.Record[T] { return types.Record[T]{} }

func (r recordReader[T, V]) Width() int { return len(r.fields) }

func (r recordReader[T, V]) Read(row *Row) (V, error) {
	var v V
	for _, f := range r.fields {
		if err := f.read(row, &v); err != nil {
			var zero V
			return zero, err
		}
	}
	return v, nil
}
