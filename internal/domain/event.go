package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether no coordinates are set.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// PollutantReading is one pollutant's raw value and its normalized form.
type PollutantReading struct {
	Raw      float64  `json:"raw"`
	AQI      float64  `json:"aqi"`
	Category Category `json:"category"`
	// InRange is false when no breakpoint segment matched and AQI holds Raw.
	InRange bool `json:"in_range"`
}

// Reading is an enriched measurement for one city.
type Reading struct {
	ID         string                         `json:"id"`
	City       string                         `json:"city"`
	Country    string                         `json:"country"`
	Geo        Geo                            `json:"geo"`
	AQI        float64                        `json:"aqi"`
	Category   Category                       `json:"category"`
	Pollutants map[Pollutant]PollutantReading `json:"pollutants"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	// Fields keeps the source columns so downstream consumers can rank on them.
	Fields      Record    `json:"fields"`
	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}
