package config

import (
	"fmt"
	"os"

	"github.com/naoina/toml"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// breakpointFile is the TOML layout of a breakpoint table file:
//
//	[[segment]]
//	pollutant = "pm25"
//	concentration = [0.0, 12.0]
//	aqi = [0, 50]
//
// Segments are grouped by pollutant in file order.
type breakpointFile struct {
	Segment []segmentSpec `toml:"segment"`
}

type segmentSpec struct {
	Pollutant     string    `toml:"pollutant"`
	Concentration []float64 `toml:"concentration"`
	AQI           []int     `toml:"aqi"`
}

// LoadBreakpoints reads breakpoint tables from a TOML file. An empty path
// returns the built-in tables.
func LoadBreakpoints(path string) (domain.Breakpoints, error) {
	if path == "" {
		return domain.DefaultBreakpoints(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read breakpoints: %w", err)
	}
	return ParseBreakpoints(data)
}

// ParseBreakpoints decodes and validates TOML breakpoint tables.
func ParseBreakpoints(data []byte) (domain.Breakpoints, error) {
	var file breakpointFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode breakpoints: %w", err)
	}

	tables := make(domain.Breakpoints)
	for i, s := range file.Segment {
		if s.Pollutant == "" {
			return nil, fmt.Errorf("breakpoints segment %d: pollutant is required", i)
		}
		if len(s.Concentration) != 2 || len(s.AQI) != 2 {
			return nil, fmt.Errorf("breakpoints segment %d: concentration and aqi need exactly two values", i)
		}
		p := domain.Pollutant(s.Pollutant)
		tables[p] = append(tables[p], domain.Segment{
			CLow:  s.Concentration[0],
			CHigh: s.Concentration[1],
			ALow:  s.AQI[0],
			AHigh: s.AQI[1],
		})
	}

	if err := domain.ValidateBreakpoints(tables); err != nil {
		return nil, err
	}
	return tables, nil
}
