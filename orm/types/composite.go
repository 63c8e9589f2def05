package types

// Record 表示某张表的 all columns 元组，T 为表的标记类型
type Record[T any] struct{ NotNullTag }

func (Record[T]) Name() string { return "Record" }

type Tuple2[A, B SqlType] struct{ NotNullTag }

func (Tuple2[A, B]) Name() string {
	var a A
	var b B
	return "(" + a.Name() + ", " + b.Name() + ")"
}

type Tuple3[A, B, C SqlType] struct{ NotNullTag }

func (Tuple3[A, B, C]) Name() string {
	var a A
	var b B
	var c C
	return "(" + a.Name() + ", " + b.Name() + ", " + c.Name() + ")"
}

type Tuple4[A, B, C, D SqlType] struct{ NotNullTag }

func (Tuple4[A, B, C, D]) Name() string {
	var a A
	var b B
	var c C
	var d D
	return "(" + a.Name() + ", " + b.Name() + ", " + c.Name() + ", " + d.Name() + ")"
}

// IsNull ToSql 的返回值
type IsNull bool

const (
	IsNullNo  IsNull = false
	IsNullYes IsNull = true
)
