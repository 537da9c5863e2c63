package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Units are encoded according to the case-sensitive abbreviations from the
// Unified Code for Units of Measure: http://unitsofmeasure.org/ucum.html.
const (
	unitDimensionless = "1"
	unitMilliseconds  = "ms"
)

const (
	envelopePackage     = "greenframe"
	envelopeMeterName   = ".envelopes"
	envelopeDescription = "Count of response envelopes written, by outcome."
)

// CounterView returns summation views that add up individual measurements the counter takes.
func CounterView(pkg string, meterName string, description string) []sdkmetric.View {
	return []sdkmetric.View{
		func(inst sdkmetric.Instrument) (sdkmetric.Stream, bool) {
			if inst.Kind == sdkmetric.InstrumentKindCounter {
				if inst.Name == pkg+meterName {
					return sdkmetric.Stream{
						Name:        inst.Name,
						Description: description,
						Aggregation: sdkmetric.DefaultAggregationSelector(sdkmetric.InstrumentKindCounter),
						AttributeFilter: func(kv attribute.KeyValue) bool {
							return kv.Key == AttrOutcomeKey
						},
					}, true
				}
			}
			return sdkmetric.Stream{}, false
		},
	}
}

// LatencyMeasure returns the histogram recording span latency for pkg.
func LatencyMeasure(pkg string) metric.Float64Histogram {
	pkgMeter := otel.Meter(pkg, metric.WithInstrumentationAttributes(AttrPackageKey.String(pkg)))

	m, err := pkgMeter.Float64Histogram(
		pkg+"/latency",
		metric.WithDescription("Latency distribution of method calls"),
		metric.WithUnit(unitMilliseconds),
	)
	if err != nil {
		// Only invalid instrument names fail here.
		panic(fmt.Sprintf("fullName=%q: %v", pkg, err))
	}

	return m
}

// DimensionlessMeasure creates a simple counter specifically for dimensionless measurements.
func DimensionlessMeasure(pkg string, meterName string, description string) metric.Int64Counter {
	pkgMeter := otel.Meter(pkg, metric.WithInstrumentationAttributes(AttrPackageKey.String(pkg)))

	m, err := pkgMeter.Int64Counter(
		pkg+meterName,
		metric.WithDescription(description),
		metric.WithUnit(unitDimensionless),
	)
	if err != nil {
		panic(fmt.Sprintf("fullName=%q: %v", pkg, err))
	}
	return m
}

// EnvelopeCounter counts written envelopes. Each Add carries the outcome
// attribute, one of success, warn or fail.
type EnvelopeCounter struct {
	counter metric.Int64Counter
}

// NewEnvelopeCounter binds to the global meter provider, so it must be built
// after the telemetry manager has been initialised.
func NewEnvelopeCounter() *EnvelopeCounter {
	return &EnvelopeCounter{
		counter: DimensionlessMeasure(envelopePackage, envelopeMeterName, envelopeDescription),
	}
}

func (c *EnvelopeCounter) Record(ctx context.Context, outcome string) {
	if c == nil {
		return
	}
	c.counter.Add(ctx, 1, metric.WithAttributes(AttrOutcomeKey.String(outcome)))
}
