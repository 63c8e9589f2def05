package orm

import (
	"slices"

	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// SelectStatement 查询源为 QS、每行类型为 ST 的 SELECT 语句。
// 每个方法都返回新的语句，原语句不变。
type SelectStatement[QS any, ST types.SqlType] struct {
	from      QueryFragment
	selection QueryFragment
	distinct  bool
	where     QueryFragment
	orderBy   []QueryFragment
	limit     *int64
	offset    *int64
}

// From 以表的 AllColumns 作为 SELECT 列表
func From[T any](t *Table[T]) SelectStatement[T, types.Record[T]] {
	return SelectStatement[T, types.Record[T]]{from: t, selection: t.AllColumns()}
}

// Select sel 必须能从 from 中查询，否则无法通过编译
func Select[QS any, ST types.SqlType, S Source[QS]](from S, sel Expr[QS, ST]) SelectStatement[QS, ST] {
	return SelectStatement[QS, ST]{from: from, selection: sel}
}

// SelectAggregate 查询聚合表达式
func SelectAggregate[QS any, ST types.SqlType, S Source[QS]](from S, sel Aggregate[QS, ST]) SelectStatement[QS, ST] {
	return SelectStatement[QS, ST]{from: from, selection: sel}
}

// Where 多次调用使用 AND 连接
func (s SelectStatement[QS, ST]) Where(pred Expr[QS, types.Bool]) SelectStatement[QS, ST] {
	if s.where == nil {
		s.where = pred.node
		return s
	}
	s.where = &binaryNode{left: s.where, op: "AND", right: pred.node, prec: precAnd}
	return s
}

func (s SelectStatement[QS, ST]) OrderBy(orders ...Order[QS]) SelectStatement[QS, ST] {
	res := slices.Clip(s.orderBy)
	for _, o := range orders {
		res = append(res, o)
	}
	s.orderBy = res
	return s
}

func (s SelectStatement[QS, ST]) Limit(n int64) SelectStatement[QS, ST] {
	s.limit = &n
	return s
}

func (s SelectStatement[QS, ST]) Offset(n int64) SelectStatement[QS, ST] {
	s.offset = &n
	return s
}

func (s SelectStatement[QS, ST]) Distinct() SelectStatement[QS, ST] {
	s.distinct = true
	return s
}

func (s SelectStatement[QS, ST]) SqlType() ST {
	var st ST
	return st
}

func (s SelectStatement[QS, ST]) Build(b *Builder) error {
	b.PushSQL("SELECT ")
	if s.distinct {
		b.PushSQL("DISTINCT ")
	}
	if err := s.selection.Build(b); err != nil {
		return err
	}
	b.PushSQL(" FROM ")
	if err := s.from.Build(b); err != nil {
		return err
	}
	if s.where != nil {
		b.PushSQL(" WHERE ")
		if err := s.where.Build(b); err != nil {
			return err
		}
	}
	if len(s.orderBy) > 0 {
		b.PushSQL(" ORDER BY ")
		if err := listNode(s.orderBy).Build(b); err != nil {
			return err
		}
	}
	if s.limit != nil {
		b.PushSQL(" LIMIT ")
		if err := BigInt(*s.limit).Build(b); err != nil {
			return err
		}
	}
	if s.offset != nil {
		b.PushSQL(" OFFSET ")
		if err := BigInt(*s.offset).Build(b); err != nil {
			return err
		}
	}
	return nil
}

// Order ORDER BY 中的一项，只接受非聚合表达式
type Order[QS any] struct {
	node QueryFragment
	desc bool
}

func Asc[QS any, ST types.SqlType](e Expr[QS, ST]) Order[QS] {
	return Order[QS]{node: e.node}
}

func Desc[QS any, ST types.SqlType](e Expr[QS, ST]) Order[QS] {
	return Order[QS]{node: e.node, desc: true}
}

func (o Order[QS]) Build(b *Builder) error {
	if err := o.node.Build(b); err != nil {
		return err
	}
	if o.desc {
		b.PushSQL(" DESC")
	} else {
		b.PushSQL(" ASC")
	}
	return nil
}
