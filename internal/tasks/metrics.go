package tasks

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var operationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasks_operations_total",
		Help: "Task store operations by outcome",
	},
	[]string{"op", "outcome"},
)

func init() {
	prometheus.MustRegister(operationsTotal)
}

func outcome(err error) string {
	var (
		vErr  *ValidationError
		nfErr *NotFoundError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &vErr):
		return "validation_error"
	case errors.As(err, &nfErr):
		return "not_found"
	default:
		return "error"
	}
}
