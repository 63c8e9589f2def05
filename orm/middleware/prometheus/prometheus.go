package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyerfyer/fyer-typedsql/orm"
)

type MiddlewareBuilder struct {
	NameSpace string
	Name      string
	SubSystem string
	Help      string
	// Registerer 为空时使用 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (m *MiddlewareBuilder) Build() orm.Middleware {
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Help:      m.Help,
		Namespace: m.NameSpace,
		Subsystem: m.SubSystem,
		Objectives: map[float64]float64{
			0.5:   0.05,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"backend", "op", "status"})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vec)

	return func(next orm.Handler) orm.Handler {
		return orm.HandlerFunc(func(ctx context.Context, qc *orm.QueryContext) (*orm.QueryResult, error) {
			startTime := time.Now()
			res, err := next.QueryHandler(ctx, qc)
			status := "ok"
			if err != nil {
				status = "error"
			}
			vec.WithLabelValues(qc.Backend, qc.Op, status).
				Observe(float64(time.Since(startTime).Microseconds()))
			return res, err
		})
	}
}
