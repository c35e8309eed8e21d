package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/rogerio-castellano/gerenciador-itens"

// Operations counts API calls by endpoint, method and status class.
type Operations struct {
	counter metric.Int64Counter
}

// NewOperations creates the itens.operacoes counter on the global meter
// provider.
func NewOperations() (*Operations, error) {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"itens.operacoes",
		metric.WithDescription("API operations handled, by endpoint, method and status class"),
	)
	if err != nil {
		return nil, err
	}
	return &Operations{counter: counter}, nil
}

// Record adds one operation. A nil receiver records nothing.
func (o *Operations) Record(ctx context.Context, endpoint, method string, status int) {
	if o == nil {
		return
	}
	o.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("method", method),
		attribute.String("status_class", StatusClass(status)),
	))
}

// StatusClass turns 404 into "4xx".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
