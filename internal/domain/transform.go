package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseRawEvent decodes a flat JSON object into a Record. Strings are kept as
// is, numbers and booleans are stringified and nulls become "". Nested objects
// or arrays are rejected.
func ParseRawEvent(raw RawEvent) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("parse raw event: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("parse raw event: expected JSON object")
	}

	rec := make(Record, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			rec[k] = ""
		case string:
			rec[k] = val
		case json.Number:
			rec[k] = val.String()
		case bool:
			rec[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("parse raw event: field %q is not a scalar", k)
		}
	}
	return rec, nil
}

// EnrichReading converts a record into a Reading: every pollutant column in
// the schema is normalized through conv and classified, and the overall AQI is
// taken from the schema's AQI column, falling back to the worst pollutant AQI
// when that column is empty.
func EnrichReading(rec Record, schema Schema, conv *Converter) Reading {
	lat := rec.Float(schema.LatField)
	lon := rec.Float(schema.LonField)
	city := rec.Get(schema.CityField)
	country := rec.Get(schema.CountryField)

	pollutants := make(map[Pollutant]PollutantReading, len(schema.PollutantFields))
	worst := 0.0
	for p, field := range schema.PollutantFields {
		if rec.Get(field) == "" {
			continue
		}
		raw := rec.Float(field)
		aqi, ok := conv.Convert(p, raw)
		pollutants[p] = PollutantReading{
			Raw:      raw,
			AQI:      aqi,
			Category: CategoryFor(aqi),
			InRange:  ok,
		}
		if aqi > worst {
			worst = aqi
		}
	}

	overall := worst
	if rec.Get(schema.AQIField) != "" {
		overall = rec.Float(schema.AQIField)
	}
	category, ok := ParseCategory(rec.Get(schema.CategoryField))
	if !ok {
		category = CategoryFor(overall)
	}

	return Reading{
		ID:          generateID(country, city, lat, lon),
		City:        city,
		Country:     country,
		Geo:         Geo{Lat: lat, Lon: lon},
		AQI:         overall,
		Category:    category,
		Pollutants:  pollutants,
		Fields:      rec,
		ProcessedAt: clock.Now(),
	}
}

// generateID produces a deterministic ID from the reading's location so a
// replayed record maps to the same key.
func generateID(country, city string, lat, lon float64) string {
	input := fmt.Sprintf("%s|%s|%.4f|%.4f", strings.ToLower(country), strings.ToLower(city), lat, lon)
	hash := sha256.Sum256([]byte(input))
	return "aq-" + hex.EncodeToString(hash[:8])
}
