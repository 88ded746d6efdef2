package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
)

// AirQualityTransformer implements Transformer: it parses a flat dataset row,
// normalizes its pollutant values to AQI and optionally geocodes it.
type AirQualityTransformer struct {
	schema    domain.Schema
	converter *domain.Converter
	geocoder  domain.Geocoder
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTransformer creates an AirQualityTransformer. Pass a nil geocoder to
// disable geocoding enrichment.
func NewTransformer(schema domain.Schema, conv *domain.Converter, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *AirQualityTransformer {
	return &AirQualityTransformer{
		schema:    schema,
		converter: conv,
		geocoder:  geocoder,
		metrics:   metrics,
		logger:    logger,
	}
}

func (t *AirQualityTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Reading, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.Reading{}, err
	}

	reading := domain.EnrichReading(rec, t.schema, t.converter)
	reading.RawPayload = raw.Value
	t.recordConversions(reading)

	return domain.EnrichWithGeocoding(ctx, reading, t.geocoder, t.logger), nil
}

func (t *AirQualityTransformer) recordConversions(r domain.Reading) {
	for p, pr := range r.Pollutants {
		outcome := "segment"
		if !pr.InRange {
			outcome = "fallback"
			t.logger.Debug("concentration outside breakpoints",
				"pollutant", p, "value", pr.Raw, "city", r.City, "country", r.Country)
		}
		t.metrics.AQIConversions.WithLabelValues(string(p), outcome).Inc()
	}
}
