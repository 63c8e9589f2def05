package orm

import (
	"context"
	"database/sql"
	"fmt"
)

// OpSelect 目前唯一会交给执行链的语句种类
const OpSelect = "select"

// QueryContext 在中间件之间传递的一次执行
type QueryContext struct {
	// Op 语句种类，用作 span 名和指标标签
	Op      string
	Query   *Query
	Backend string
	// Width 行读取器期望的列数
	Width int
}

type QueryResult struct {
	Rows *sql.Rows
	Err  error
}

type Handler interface {
	QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error)
}

type HandlerFunc func(ctx context.Context, qc *QueryContext) (*QueryResult, error)

func (h HandlerFunc) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	return h(ctx, qc)
}

type Middleware func(Handler) Handler

// BuildChain 先注册的中间件在最外层
func BuildChain(core Handler, ms []Middleware) Handler {
	h := core
	for i := len(ms) - 1; i >= 0; i-- {
		h = ms[i](h)
	}
	return h
}

// CoreHandler 链的最后一环，把编码好的参数交给 database/sql
type CoreHandler struct {
	db *DB
}

func (c *CoreHandler) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	if qc.Op != OpSelect {
		return nil, fmt.Errorf("orm: unsupported statement %q", qc.Op)
	}
	rows, err := c.db.sqlDB.QueryContext(ctx, qc.Query.SQL, qc.Query.DriverArgs()...)
	return &QueryResult{Rows: rows, Err: err}, err
}
