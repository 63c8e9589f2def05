package orm

import (
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// 算术运算的结果类型与左操作数相同

func Add[QS any, ST types.Numeric](l, r Expr[QS, ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "+", precAdd, r.node)
}

func Sub[QS any, ST types.Numeric](l, r Expr[QS, ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "-", precAdd, r.node)
}

func Mul[QS any, ST types.Numeric](l, r Expr[QS, ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "*", precMul, r.node)
}

func Div[QS any, ST types.Numeric](l, r Expr[QS, ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "/", precMul, r.node)
}

func AddVal[QS any, ST types.Numeric](l Expr[QS, ST], r Bound[ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "+", precAdd, r)
}

func SubVal[QS any, ST types.Numeric](l Expr[QS, ST], r Bound[ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "-", precAdd, r)
}

func MulVal[QS any, ST types.Numeric](l Expr[QS, ST], r Bound[ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "*", precMul, r)
}

func DivVal[QS any, ST types.Numeric](l Expr[QS, ST], r Bound[ST]) Expr[QS, ST] {
	return binary[QS, ST](l.node, "/", precMul, r)
}

// 比较运算要求两侧类型一致，可空与非空之间需要先 AsNullable

func Eq[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "=", r.node)
}

func NotEq[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<>", r.node)
}

func Gt[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, ">", r.node)
}

func GtEq[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, ">=", r.node)
}

func Lt[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<", r.node)
}

func LtEq[QS any, ST types.SqlType](l, r Expr[QS, ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<=", r.node)
}

func EqVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "=", r)
}

func NotEqVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<>", r)
}

func GtVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, ">", r)
}

func GtEqVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, ">=", r)
}

func LtVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<", r)
}

func LtEqVal[QS any, ST types.SqlType](l Expr[QS, ST], r Bound[ST]) Expr[QS, types.Bool] {
	return compare[QS](l.node, "<=", r)
}

func And[QS any](l, r Expr[QS, types.Bool]) Expr[QS, types.Bool] {
	return binary[QS, types.Bool](l.node, "AND", precAnd, r.node)
}

func Or[QS any](l, r Expr[QS, types.Bool]) Expr[QS, types.Bool] {
	return binary[QS, types.Bool](l.node, "OR", precOr, r.node)
}

func Not[QS any](e Expr[QS, types.Bool]) Expr[QS, types.Bool] {
	return Expr[QS, types.Bool]{node: &prefixNode{op: "NOT", operand: e.node, prec: precNot}}
}

func IsNull[QS any, ST types.SqlType](e Expr[QS, ST]) Expr[QS, types.Bool] {
	return Expr[QS, types.Bool]{node: &postfixNode{operand: e.node, op: "IS NULL", prec: precIs}}
}

func IsNotNull[QS any, ST types.SqlType](e Expr[QS, ST]) Expr[QS, types.Bool] {
	return Expr[QS, types.Bool]{node: &postfixNode{operand: e.node, op: "IS NOT NULL", prec: precIs}}
}

// AsNullable 显式地把非空表达式当作可空使用，SQL 不变
func AsNullable[QS any, ST types.NotNull](e Expr[QS, ST]) Expr[QS, types.Nullable[ST]] {
	return Expr[QS, types.Nullable[ST]]{node: e.node}
}

// Tuple2 多个表达式组成的 SELECT 列表

func Tuple2[QS any, A, B types.SqlType](a Expr[QS, A], b Expr[QS, B]) Expr[QS, types.Tuple2[A, B]] {
	return Expr[QS, types.Tuple2[A, B]]{node: listNode{a.node, b.node}}
}

func Tuple3[QS any, A, B, C types.SqlType](a Expr[QS, A], b Expr[QS, B], c Expr[QS, C]) Expr[QS, types.Tuple3[A, B, C]] {
	return Expr[QS, types.Tuple3[A, B, C]]{node: listNode{a.node, b.node, c.node}}
}

func Tuple4[QS any, A, B, C, D types.SqlType](a Expr[QS, A], b Expr[QS, B], c Expr[QS, C], d Expr[QS, D]) Expr[QS, types.Tuple4[A, B, C, D]] {
	return Expr[QS, types.Tuple4[A, B, C, D]]{node: listNode{a.node, b.node, c.node, d.node}}
}
