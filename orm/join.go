package orm

import (
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Source 可以出现在 FROM 子句中的查询源，QS 决定了哪些表达式可以使用
type Source[QS any] interface {
	QueryFragment
	sourceOf() QS
}

// JoinKind 连接类型
type JoinKind interface {
	Inner | LeftOuter
	keyword() string
}

type Inner struct{}

func (Inner) keyword() string { return "INNER JOIN" }

// LeftOuter 右侧表的列只能以 Nullable 的形式被使用
type LeftOuter struct{}

func (LeftOuter) keyword() string { return "LEFT OUTER JOIN" }

// Join 既是 FROM 子句，也是查询源类型。
// 嵌套的 Join 形成左深树：A JOIN B ON .. JOIN C ON ..，每一跳的 ON 条件在自己的层级输出。
type Join[L, R any, K JoinKind] struct {
	left      L
	right     R
	leftFrom  QueryFragment
	rightFrom QueryFragment
	on        QueryFragment
	kind      K
}

func (j Join[L, R, K]) Build(b *Builder) error {
	if err := j.leftFrom.Build(b); err != nil {
		return err
	}
	b.PushSQL(" " + j.kind.keyword() + " ")
	if err := buildOperand(b, j.rightFrom, isJoin(j.rightFrom)); err != nil {
		return err
	}
	b.PushSQL(" ON ")
	return j.on.Build(b)
}

func (j Join[L, R, K]) sourceOf() Join[L, R, K] {
	return j
}

func (Join[L, R, K]) join() {}

// Left 左侧的查询源，嵌套 join 中用于逐层提升列
func (j Join[L, R, K]) Left() L {
	return j.left
}

// Right 右侧的查询源
func (j Join[L, R, K]) Right() R {
	return j.right
}

func (j Join[L, R, K]) Count() Aggregate[Join[L, R, K], types.BigInt] {
	return Aggregate[Join[L, R, K], types.BigInt]{node: &funcNode{name: "COUNT"}}
}

func isJoin(f QueryFragment) bool {
	_, ok := f.(interface{ join() })
	return ok
}

// Relation 子表外键指向父表主键
type Relation[C, P any] struct {
	child  *tableMeta
	parent *tableMeta
	on     QueryFragment
}

// ForeignKey 声明 fk 引用 pk，pk 必须是父表的主键。
// ON 条件为 fk = pk，两侧都视为可空，所以左外连接下依然类型正确。
func ForeignKey[C, P any, ST types.NotNull](fk Expr[C, ST], pk Expr[P, ST]) Relation[C, P] {
	return newRelation[C, P](fk.node, pk.node)
}

// NullableForeignKey 外键列本身可空
func NullableForeignKey[C, P any, ST types.NotNull](fk Expr[C, types.Nullable[ST]], pk Expr[P, ST]) Relation[C, P] {
	return newRelation[C, P](fk.node, pk.node)
}

func newRelation[C, P any](fk, pk QueryFragment) Relation[C, P] {
	fkCol, ok := fk.(*column)
	if !ok {
		panic(ferr.ErrInvalidColumn(DebugSQL(fk)))
	}
	pkCol, ok := pk.(*column)
	if !ok {
		panic(ferr.ErrInvalidColumn(DebugSQL(pk)))
	}
	if pkCol.table.primaryKey != pkCol.name {
		panic(ferr.ErrNotPrimaryKey(pkCol.table.name, pkCol.name))
	}
	return Relation[C, P]{
		child:  fkCol.table,
		parent: pkCol.table,
		on:     &binaryNode{left: fkCol, op: "=", right: pkCol, prec: precCompare, nonAssoc: true},
	}
}

// ParentJoin 以父表为根连接子表
func ParentJoin[C, P any, K JoinKind](rel Relation[C, P], kind K) Join[P, C, K] {
	return Join[P, C, K]{leftFrom: rel.parent, rightFrom: rel.child, on: rel.on, kind: kind}
}

// ChildJoin 以子表为根连接父表
func ChildJoin[C, P any, K JoinKind](rel Relation[C, P], kind K) Join[C, P, K] {
	return Join[C, P, K]{leftFrom: rel.child, rightFrom: rel.parent, on: rel.on, kind: kind}
}

// Through 组合 A -> B 与 B -> C 两跳得到 A -> C，两跳可以使用不同的连接类型
func Through[A, B, C any, K1, K2 JoinKind](ab Join[A, B, K1], bc Join[B, C, K2]) Join[Join[A, B, K1], C, K2] {
	return Join[Join[A, B, K1], C, K2]{
		left:      ab,
		right:     bc.right,
		leftFrom:  ab,
		rightFrom: bc.rightFrom,
		on:        bc.on,
		kind:      bc.kind,
	}
}

// JoinOn 手工组合一个 join，on 接收尚未设置条件的 join，用来提升两侧的列
func JoinOn[L, R any, K JoinKind, SL Source[L], SR Source[R]](left SL, right SR, kind K,
	on func(j Join[L, R, K]) Expr[Join[L, R, K], types.Bool]) Join[L, R, K] {
	j := Join[L, R, K]{
		left:      left.sourceOf(),
		right:     right.sourceOf(),
		leftFrom:  left,
		rightFrom: right,
		kind:      kind,
	}
	j.on = on(j).node
	return j
}

// 以下函数把查询源中的表达式提升到 join 中，左外连接右侧的列被提升为 Nullable。
// 提升可以逐层叠加，因此可空性在任意深度的 join 链上传递。

// Left 左侧的表达式，类型不变
func Left[L, R any, K JoinKind, ST types.SqlType](_ Join[L, R, K], e Expr[L, ST]) Expr[Join[L, R, K], ST] {
	return Expr[Join[L, R, K], ST]{node: e.node}
}

// Right 内连接右侧的表达式，类型不变
func Right[L, R any, ST types.SqlType](_ Join[L, R, Inner], e Expr[R, ST]) Expr[Join[L, R, Inner], ST] {
	return Expr[Join[L, R, Inner], ST]{node: e.node}
}

// OuterRight 左外连接右侧的表达式，类型变为 Nullable[ST]
func OuterRight[L, R any, ST types.NotNull](_ Join[L, R, LeftOuter], e Expr[R, ST]) Expr[Join[L, R, LeftOuter], types.Nullable[ST]] {
	return Expr[Join[L, R, LeftOuter], types.Nullable[ST]]{node: e.node}
}

// OuterRightNullable 左外连接右侧本身可空的表达式
func OuterRightNullable[L, R any, ST types.NotNull](_ Join[L, R, LeftOuter], e Expr[R, types.Nullable[ST]]) Expr[Join[L, R, LeftOuter], types.Nullable[ST]] {
	return Expr[Join[L, R, LeftOuter], types.Nullable[ST]]{node: e.node}
}
