package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyerfyer/fyer-typedsql/orm"
)

const defaultInstrumentationName = "github.com/fyerfyer/fyer-typedsql/orm"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	tracer := m.Tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(defaultInstrumentationName)
	}

	return func(next orm.Handler) orm.Handler {
		return orm.HandlerFunc(func(ctx context.Context, qc *orm.QueryContext) (*orm.QueryResult, error) {
			ctx, span := tracer.Start(ctx, "orm."+qc.Op, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("db.system", qc.Backend),
				attribute.String("db.statement", qc.Query.SQL),
				attribute.Int("db.args", len(qc.Query.Args)),
				attribute.Int("db.columns", qc.Width),
			)

			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return res, err
		})
	}
}
