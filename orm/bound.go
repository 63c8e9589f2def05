package orm

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/codec"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Bound 绑定参数，输出时写入一个占位符并追加一个参数。
// 它可以和任意查询源中的表达式组合。
type Bound[ST types.SqlType] struct {
	encode func(out *bytes.Buffer, b backend.Backend) (types.IsNull, error)
}

// Bind 用编解码器包装一个宿主值
func Bind[ST types.SqlType, V any](c codec.Codec[ST, V], v V) Bound[ST] {
	return Bound[ST]{encode: func(out *bytes.Buffer, b backend.Backend) (types.IsNull, error) {
		return c.ToSql(v, out, b)
	}}
}

// BindRef 与 Bind 的编码结果相同，值在调用时被复制
func BindRef[ST types.SqlType, V any](c codec.Codec[ST, V], v *V) Bound[ST] {
	return Bind(c, *v)
}

func (bd Bound[ST]) Build(b *Builder) error {
	var tag ST
	if b.IsDebug() || bd.encode == nil {
		return b.PushBoundValue(tag, nil, types.IsNullYes)
	}
	var buf bytes.Buffer
	isNull, err := bd.encode(&buf, b.Backend())
	if err != nil {
		return err
	}
	if isNull {
		return b.PushBoundValue(tag, nil, types.IsNullYes)
	}
	return b.PushBoundValue(tag, buf.Bytes(), types.IsNullNo)
}

func (Bound[ST]) SqlType() ST {
	var st ST
	return st
}

func Int(v int32) Bound[types.Integer] { return Bind(codec.Integer, v) }

func SmallInt(v int16) Bound[types.SmallInt] { return Bind(codec.SmallInt, v) }

func BigInt(v int64) Bound[types.BigInt] { return Bind(codec.BigInt, v) }

func Float(v float32) Bound[types.Float] { return Bind(codec.Float, v) }

func Double(v float64) Bound[types.Double] { return Bind(codec.Double, v) }

func Str(v string) Bound[types.VarChar] { return Bind(codec.VarChar, v) }

func Text(v string) Bound[types.Text] { return Bind(codec.Text, v) }

func Bool(v bool) Bound[types.Bool] { return Bind(codec.Bool, v) }

func Time(v time.Time) Bound[types.Timestamp] { return Bind(codec.Timestamp, v) }

func Bytes(v []byte) Bound[types.Binary] { return Bind(codec.Binary, v) }

func UUID(v uuid.UUID) Bound[types.Uuid] { return Bind(codec.UUID, v) }

// Null 类型为 Nullable[ST] 的 NULL 参数
func Null[ST types.NotNull]() Bound[types.Nullable[ST]] {
	return Bound[types.Nullable[ST]]{encode: func(*bytes.Buffer, backend.Backend) (types.IsNull, error) {
		return types.IsNullYes, nil
	}}
}
