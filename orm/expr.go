package orm

import (
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Expression 带 SQL 类型的节点
type Expression[ST types.SqlType] interface {
	QueryFragment
	SqlType() ST
}

// SelectableExpression 在查询源 QS 中可以出现在 SELECT、WHERE、ON 里
type SelectableExpression[QS any, ST types.SqlType] interface {
	Expression[ST]
	selectableFrom(QS)
}

// NonAggregate 不包含聚合函数
type NonAggregate interface {
	QueryFragment
	nonAggregate()
}

// Expr 查询源 QS 中类型为 ST 的非聚合表达式。
// 列、运算结果、提升到 join 中的列都是 Expr，QS 不同的表达式不能组合。
type Expr[QS any, ST types.SqlType] struct {
	node QueryFragment
}

func (e Expr[QS, ST]) Build(b *Builder) error {
	return e.node.Build(b)
}

func (e Expr[QS, ST]) SqlType() ST {
	var st ST
	return st
}

// ColumnInfo 如果表达式是一个列，返回列信息
func (e Expr[QS, ST]) ColumnInfo() (ColumnInfo, bool) {
	c, ok := e.node.(*column)
	if !ok {
		return ColumnInfo{}, false
	}
	return c.info(), true
}

func (Expr[QS, ST]) selectableFrom(QS) {}

func (Expr[QS, ST]) nonAggregate() {}

// Aggregate 聚合表达式，不是 NonAggregate，所以不能用在 WHERE 和 ORDER BY 中
type Aggregate[QS any, ST types.SqlType] struct {
	node QueryFragment
}

func (a Aggregate[QS, ST]) Build(b *Builder) error {
	return a.node.Build(b)
}

func (a Aggregate[QS, ST]) SqlType() ST {
	var st ST
	return st
}

func (Aggregate[QS, ST]) selectableFrom(QS) {}

// 运算符优先级，数值越大结合越紧。
// PostgreSQL 中 IS [NOT] NULL 比 = 和 < 结合得更松。
const (
	precOr = iota + 1
	precAnd
	precNot
	precIs
	precCompare
	precAdd
	precMul
	precAtom = 100
)

type precedencer interface {
	precedence() int
}

func precedenceOf(f QueryFragment) int {
	if p, ok := f.(precedencer); ok {
		return p.precedence()
	}
	return precAtom
}

func buildOperand(b *Builder, f QueryFragment, paren bool) error {
	if !paren {
		return f.Build(b)
	}
	b.PushSQL("(")
	if err := f.Build(b); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

type binaryNode struct {
	left  QueryFragment
	op    string
	right QueryFragment
	prec  int
	// 比较运算不满足结合律，左侧同级也要加括号
	nonAssoc bool
}

func (n *binaryNode) precedence() int { return n.prec }

func (n *binaryNode) Build(b *Builder) error {
	lp := precedenceOf(n.left)
	if err := buildOperand(b, n.left, lp < n.prec || (n.nonAssoc && lp == n.prec)); err != nil {
		return err
	}
	b.PushSQL(" " + n.op + " ")
	return buildOperand(b, n.right, precedenceOf(n.right) <= n.prec)
}

type prefixNode struct {
	op      string
	operand QueryFragment
	prec    int
}

func (n *prefixNode) precedence() int { return n.prec }

func (n *prefixNode) Build(b *Builder) error {
	b.PushSQL(n.op + " ")
	return buildOperand(b, n.operand, precedenceOf(n.operand) < n.prec)
}

type postfixNode struct {
	operand QueryFragment
	op      string
	prec    int
}

func (n *postfixNode) precedence() int { return n.prec }

func (n *postfixNode) Build(b *Builder) error {
	// MySQL 和 SQLite 中比较与 IS 同级，比较作为操作数时总是加括号
	p := precedenceOf(n.operand)
	if err := buildOperand(b, n.operand, p <= n.prec || p == precCompare); err != nil {
		return err
	}
	b.PushSQL(" " + n.op)
	return nil
}

// funcNode 函数调用，arg 为空时输出 name(*)
type funcNode struct {
	name string
	arg  QueryFragment
}

func (n *funcNode) Build(b *Builder) error {
	b.PushSQL(n.name + "(")
	if n.arg == nil {
		b.PushSQL("*")
	} else if err := n.arg.Build(b); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

// listNode 逗号分隔的列表
type listNode []QueryFragment

func (l listNode) Build(b *Builder) error {
	for i, f := range l {
		if i > 0 {
			b.PushSQL(", ")
		}
		if err := f.Build(b); err != nil {
			return err
		}
	}
	return nil
}

func binary[QS any, ST types.SqlType](left QueryFragment, op string, prec int, right QueryFragment) Expr[QS, ST] {
	return Expr[QS, ST]{node: &binaryNode{left: left, op: op, right: right, prec: prec}}
}

func compare[QS any](left QueryFragment, op string, right QueryFragment) Expr[QS, types.Bool] {
	return Expr[QS, types.Bool]{node: &binaryNode{left: left, op: op, right: right, prec: precCompare, nonAssoc: true}}
}
