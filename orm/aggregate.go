package orm

import (
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Count COUNT(expr)
func Count[QS any, ST types.SqlType](e Expr[QS, ST]) Aggregate[QS, types.BigInt] {
	return Aggregate[QS, types.BigInt]{node: &funcNode{name: "COUNT", arg: e.node}}
}

// CountStar COUNT(table.*)
func CountStar[T any](s Star[T]) Aggregate[T, types.BigInt] {
	return Aggregate[T, types.BigInt]{node: &funcNode{name: "COUNT", arg: s}}
}

// 空集上的 SUM/MAX/MIN/AVG 返回 NULL

func Sum[QS any, ST types.Numeric](e Expr[QS, ST]) Aggregate[QS, types.Nullable[ST]] {
	return Aggregate[QS, types.Nullable[ST]]{node: &funcNode{name: "SUM", arg: e.node}}
}

func Max[QS any, ST types.NotNull](e Expr[QS, ST]) Aggregate[QS, types.Nullable[ST]] {
	return Aggregate[QS, types.Nullable[ST]]{node: &funcNode{name: "MAX", arg: e.node}}
}

func Min[QS any, ST types.NotNull](e Expr[QS, ST]) Aggregate[QS, types.Nullable[ST]] {
	return Aggregate[QS, types.Nullable[ST]]{node: &funcNode{name: "MIN", arg: e.node}}
}

func Avg[QS any, ST types.Numeric](e Expr[QS, ST]) Aggregate[QS, types.Nullable[types.Double]] {
	return Aggregate[QS, types.Nullable[types.Double]]{node: &funcNode{name: "AVG", arg: e.node}}
}
