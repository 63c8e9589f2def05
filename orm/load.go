package orm

import (
	"context"

	"github.com/fyerfyer/fyer-typedsql/orm/backend"
	"github.com/fyerfyer/fyer-typedsql/orm/internal/ferr"
	"github.com/fyerfyer/fyer-typedsql/orm/types"
)

// Load 执行查询并用 reader 解码每一行
func Load[QS any, ST types.SqlType, V any](ctx context.Context, db *DB, stmt SelectStatement[QS, ST], reader RowReader[ST, V]) ([]V, error) {
	q, err := BuildQuery(db.backend, stmt)
	if err != nil {
		return nil, err
	}
	qc := &QueryContext{
		Op:      OpSelect,
		Query:   q,
		Backend: db.backend.Name(),
		Width:   reader.Width(),
	}
	res, err := db.handler.QueryHandler(ctx, qc)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Rows == nil {
		return nil, ferr.ErrNoResult(qc.Op)
	}
	rows := res.Rows
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) != reader.Width() {
		return nil, ferr.ErrColumnCount(reader.Width(), len(cols))
	}

	dest := make([]any, len(cols))
	vals := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}

	var out []V
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, err
		}
		raw := make([][]byte, len(vals))
		for i, v := range vals {
			raw[i] = backend.RawValue(db.backend, v)
		}
		v, err := ReadRow(reader, NewRow(db.backend, cols, raw))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// First 只取第一行，没有结果时返回 ErrNoRows
func First[QS any, ST types.SqlType, V any](ctx context.Context, db *DB, stmt SelectStatement[QS, ST], reader RowReader[ST, V]) (V, error) {
	var zero V
	res, err := Load(ctx, db, stmt.Limit(1), reader)
	if err != nil {
		return zero, err
	}
	if len(res) == 0 {
		return zero, ferr.ErrNoRows
	}
	return res[0], nil
}
