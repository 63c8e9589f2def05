package codec

import (
	"bytes"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Codec 宿主类型 V 与 SQL 类型 ST 之间的编解码
type Codec[ST types.SqlType, V any] interface {
	// SqlType 让 ST 出现在方法集里，不同 SQL 类型的编解码器互不可赋值
	SqlType() ST
	// ToSql 写入编码后的字节并返回是否为 NULL，两者不会同时发生
	ToSql(v V, out *bytes.Buffer, b backend.Backend) (types.IsNull, error)
	// FromSql raw 为 nil 表示 SQL NULL
	FromSql(raw []byte, b backend.Backend) (V, error)
}

// NullAware 能自己处理 NULL 的编解码器，行读取器遇到 NULL 时直接交给它
type NullAware interface {
	AcceptsNull() bool
}

// Native 直接交给后端按类型元数据编解码
type Native[ST types.SqlType, V any] struct{}

func (Native[ST, V]) SqlType() ST {
	var tag ST
	return tag
}

func (Native[ST, V]) ToSql(v V, out *bytes.Buffer, b backend.Backend) (types.IsNull, error) {
	var tag ST
	meta, err := b.TypeMetadata(tag)
	if err != nil {
		return types.IsNullNo, err
	}
	if err = b.EncodeValue(meta, v, out); err != nil {
		return types.IsNullNo, ferr.NewEncodeError(tag.Name(), err)
	}
	return types.IsNullNo, nil
}

func (Native[ST, V]) FromSql(raw []byte, b backend.Backend) (V, error) {
	var (
		tag ST
		v   V
	)
	if raw == nil {
		return v, ferr.NewUnexpectedNull(0, "")
	}
	meta, err := b.TypeMetadata(tag)
	if err != nil {
		return v, err
	}
	if err = b.DecodeValue(meta, raw, &v); err != nil {
		return v, ferr.NewDecodeError(tag.Name(), err)
	}
	return v, nil
}

var (
	SmallInt  = native[types.SmallInt, int16]()
	Integer   = native[types.Integer, int32]()
	BigInt    = native[types.BigInt, int64]()
	Float     = native[types.Float, float32]()
	Double    = native[types.Double, float64]()
	VarChar   = native[types.VarChar, string]()
	Text      = native[types.Text, string]()
	Bool      = native[types.Bool, bool]()
	Timestamp = native[types.Timestamp, time.Time]()
	Binary    = native[types.Binary, []byte]()

	UUID Codec[types.Uuid, uuid.UUID] = uuidCodec{}
)

func native[ST types.SqlType, V any]() Codec[ST, V] {
	return Native[ST, V]{}
}

// uuidCodec 以标准的 36 字符文本形式传输
type uuidCodec struct{}

func (uuidCodec) SqlType() types.Uuid { return types.Uuid{} }

func (uuidCodec) ToSql(v uuid.UUID, out *bytes.Buffer, b backend.Backend) (types.IsNull, error) {
	return Native[types.Uuid, string]{}.ToSql(v.String(), out, b)
}

func (uuidCodec) FromSql(raw []byte, b backend.Backend) (uuid.UUID, error) {
	s, err := Native[types.Uuid, string]{}.FromSql(raw, b)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ferr.NewDecodeError(types.Uuid{}.Name(), err)
	}
	return id, nil
}

// Optional 把 ST 的编解码器提升为 Nullable[ST]，NULL 不会交给内层编解码器
func Optional[ST types.NotNull, V any](inner Codec[ST, V]) Codec[types.Nullable[ST], sql.Null[V]] {
	return optional[ST, V]{inner: inner}
}

type optional[ST types.NotNull, V any] struct {
	inner Codec[ST, V]
}

func (optional[ST, V]) SqlType() types.Nullable[ST] { return types.Nullable[ST]{} }

func (o optional[ST, V]) ToSql(v sql.Null[V], out *bytes.Buffer, b backend.Backend) (types.IsNull, error) {
	if !v.Valid {
		return types.IsNullYes, nil
	}
	return o.inner.ToSql(v.V, out, b)
}

func (o optional[ST, V]) FromSql(raw []byte, b backend.Backend) (sql.Null[V], error) {
	if raw == nil {
		return sql.Null[V]{}, nil
	}
	v, err := o.inner.FromSql(raw, b)
	if err != nil {
		return sql.Null[V]{}, err
	}
	return sql.Null[V]{V: v, Valid: true}, nil
}

func (optional[ST, V]) AcceptsNull() bool { return true }

// Some 构造一个有值的 sql.Null
func Some[V any](v V) sql.Null[V] {
	return sql.Null[V]{V: v, Valid: true}
}

// None 构造一个 NULL
func None[V any]() sql.Null[V] {
	return sql.Null[V]{}
}
