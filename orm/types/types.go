package types

// SqlType 所有 SQL 类型标记都实现的约束，类型标记只在编译期使用
type SqlType interface {
	Name() string
}

// NotNull 非空类型标记，Nullable 只能包装 NotNull 类型
type NotNull interface {
	SqlType
	notNull()
}

// Numeric 可以参与算术运算的类型标记
type Numeric interface {
	NotNull
	numeric()
}

// NotNullTag 自定义类型标记嵌入它即可成为 NotNull
type NotNullTag struct{}

func (NotNullTag) notNull() {}

// NumericTag 自定义数值类型标记嵌入它
type NumericTag struct {
	NotNullTag
}

func (NumericTag) numeric() {}

type SmallInt struct{ NumericTag }

func (SmallInt) Name() string { return "SmallInt" }

type Integer struct{ NumericTag }

func (Integer) Name() string { return "Integer" }

type BigInt struct{ NumericTag }

func (BigInt) Name() string { return "BigInt" }

type Float struct{ NumericTag }

func (Float) Name() string { return "Float" }

type Double struct{ NumericTag }

func (Double) Name() string { return "Double" }

type VarChar struct{ NotNullTag }

func (VarChar) Name() string { return "VarChar" }

type Text struct{ NotNullTag }

func (Text) Name() string { return "Text" }

type Bool struct{ NotNullTag }

func (Bool) Name() string { return "Bool" }

type Timestamp struct{ NotNullTag }

func (Timestamp) Name() string { return "Timestamp" }

type Binary struct{ NotNullTag }

func (Binary) Name() string { return "Binary" }

type Uuid struct{ NotNullTag }

func (Uuid) Name() string { return "Uuid" }

// Nullable 把一个非空类型标记标记为可空
type Nullable[T NotNull] struct{}

func (Nullable[T]) Name() string {
	var t T
	return "Nullable<" + t.Name() + ">"
}

// Inner 返回被包装的类型标记
func (Nullable[T]) Inner() SqlType {
	var t T
	return t
}

// Wrapper 由 Nullable 实现
type Wrapper interface {
	Inner() SqlType
}

// Unwrap 去掉一层 Nullable
func Unwrap(tag SqlType) SqlType {
	if w, ok := tag.(Wrapper); ok {
		return w.Inner()
	}
	return tag
}

// IsNullable 判断类型标记是否可空
func IsNullable(tag SqlType) bool {
	_, ok := tag.(Wrapper)
	return ok
}

// Void table.* 的类型，不对应任何值
type Void struct{}

func (Void) Name() string { return "Void" }
