package querylog

import (
	"context"
	"time"

	"github.com/fyerfyer/fyer-typedsql/logger"
	"github.com/fyerfyer/fyer-typedsql/orm"
)

// MiddlewareBuilder 记录每条查询的 SQL、参数个数和耗时
type MiddlewareBuilder struct {
	logger    logger.Logger
	logArgs   bool
	threshold time.Duration
}

func NewBuilder(l logger.Logger) *MiddlewareBuilder {
	if l == nil {
		l = logger.Default()
	}
	return &MiddlewareBuilder{logger: l}
}

// LogArgs 同时记录参数，参数可能包含敏感数据
func (m *MiddlewareBuilder) LogArgs() *MiddlewareBuilder {
	m.logArgs = true
	return m
}

// SlowThreshold 超过阈值的查询以 Warn 级别记录
func (m *MiddlewareBuilder) SlowThreshold(d time.Duration) *MiddlewareBuilder {
	m.threshold = d
	return m
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return orm.HandlerFunc(func(ctx context.Context, qc *orm.QueryContext) (*orm.QueryResult, error) {
			start := time.Now()
			res, err := next.QueryHandler(ctx, qc)
			duration := time.Since(start)

			fields := []logger.Field{
				logger.Backend(qc.Backend),
				logger.SQL(qc.Query.SQL),
				logger.Int("args", len(qc.Query.Args)),
				logger.Duration("duration", duration),
			}
			if m.logArgs {
				args := make([]string, len(qc.Query.Args))
				for i, arg := range qc.Query.Args {
					args[i] = arg.String()
				}
				fields = append(fields, logger.Interface("values", args))
			}

			l := m.logger.WithContext(ctx)
			switch {
			case err != nil:
				l.Error("query failed", append(fields, logger.FieldError(err))...)
			case m.threshold > 0 && duration > m.threshold:
				l.Warn("slow query", fields...)
			default:
				l.Debug("query", fields...)
			}
			return res, err
		})
	}
}
