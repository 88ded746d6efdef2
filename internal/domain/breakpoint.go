package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Pollutant identifies one breakpoint table.
type Pollutant string

const (
	Ozone Pollutant = "ozone"
	PM25  Pollutant = "pm25"
	CO    Pollutant = "co"
	NO2   Pollutant = "no2"
)

// Segment is one linear piece of a breakpoint table. Both ranges are inclusive.
type Segment struct {
	CLow  float64 `json:"c_low"`
	CHigh float64 `json:"c_high"`
	ALow  int     `json:"a_low"`
	AHigh int     `json:"a_high"`
}

// contains reports whether c lies in [CLow, CHigh].
func (s Segment) contains(c float64) bool {
	return c >= s.CLow && c <= s.CHigh
}

// interpolate maps c linearly from the concentration range onto the AQI range.
func (s Segment) interpolate(c float64) float64 {
	slope := float64(s.AHigh-s.ALow) / (s.CHigh - s.CLow)
	// float64() forbids a fused multiply-add; endpoints must map exactly.
	return float64(slope*(c-s.CLow)) + float64(s.ALow)
}

// Breakpoints maps each pollutant to its segments, ascending by concentration.
type Breakpoints map[Pollutant][]Segment

// DefaultBreakpoints returns the published tables for ozone (ppb), PM2.5
// (µg/m³), CO (ppm) and NO2 (ppb). A fresh copy is returned on every call.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		Ozone: {
			{CLow: 0, CHigh: 54, ALow: 0, AHigh: 50},
			{CLow: 55, CHigh: 70, ALow: 51, AHigh: 100},
			{CLow: 71, CHigh: 85, ALow: 101, AHigh: 150},
			{CLow: 86, CHigh: 105, ALow: 151, AHigh: 200},
			{CLow: 106, CHigh: 200, ALow: 201, AHigh: 300},
			{CLow: 201, CHigh: 404, ALow: 301, AHigh: 500},
		},
		PM25: {
			{CLow: 0, CHigh: 12, ALow: 0, AHigh: 50},
			{CLow: 12.1, CHigh: 35.4, ALow: 51, AHigh: 100},
			{CLow: 35.5, CHigh: 55.4, ALow: 101, AHigh: 150},
			{CLow: 55.5, CHigh: 150.4, ALow: 151, AHigh: 200},
			{CLow: 150.5, CHigh: 250.4, ALow: 201, AHigh: 300},
			{CLow: 250.5, CHigh: 500.4, ALow: 301, AHigh: 500},
		},
		CO: {
			{CLow: 0, CHigh: 4.4, ALow: 0, AHigh: 50},
			{CLow: 4.5, CHigh: 9.4, ALow: 51, AHigh: 100},
			{CLow: 9.5, CHigh: 12.4, ALow: 101, AHigh: 150},
			{CLow: 12.5, CHigh: 15.4, ALow: 151, AHigh: 200},
			{CLow: 15.5, CHigh: 30.4, ALow: 201, AHigh: 300},
			{CLow: 30.5, CHigh: 50.4, ALow: 301, AHigh: 500},
		},
		NO2: {
			{CLow: 0, CHigh: 53, ALow: 0, AHigh: 50},
			{CLow: 54, CHigh: 100, ALow: 51, AHigh: 100},
			{CLow: 101, CHigh: 360, ALow: 101, AHigh: 150},
			{CLow: 361, CHigh: 649, ALow: 151, AHigh: 200},
			{CLow: 650, CHigh: 1249, ALow: 201, AHigh: 300},
			{CLow: 1250, CHigh: 2049, ALow: 301, AHigh: 500},
		},
	}
}

// ValidateBreakpoints checks that every table is non-empty, that each segment
// has a positive concentration width and a non-decreasing AQI range, and that
// segments ascend without overlapping. Adjacent segments may share a single
// boundary value; the earlier segment owns it.
func ValidateBreakpoints(tables Breakpoints) error {
	if len(tables) == 0 {
		return errors.New("no breakpoint tables configured")
	}
	for p, segs := range tables {
		if len(segs) == 0 {
			return fmt.Errorf("breakpoints %q: empty table", p)
		}
		for i, s := range segs {
			if s.CHigh <= s.CLow {
				return fmt.Errorf("breakpoints %q segment %d: c_high %g must exceed c_low %g", p, i, s.CHigh, s.CLow)
			}
			if s.AHigh < s.ALow {
				return fmt.Errorf("breakpoints %q segment %d: a_high %d below a_low %d", p, i, s.AHigh, s.ALow)
			}
			if i > 0 && s.CLow < segs[i-1].CHigh {
				return fmt.Errorf("breakpoints %q segment %d: c_low %g overlaps previous c_high %g", p, i, s.CLow, segs[i-1].CHigh)
			}
		}
	}
	return nil
}

// Converter maps raw concentrations to AQI values. It is immutable after
// construction and safe for concurrent use.
type Converter struct {
	tables Breakpoints
}

// NewConverter copies tables into a new Converter. A nil or empty map selects
// DefaultBreakpoints.
func NewConverter(tables Breakpoints) *Converter {
	if len(tables) == 0 {
		return &Converter{tables: DefaultBreakpoints()}
	}
	own := make(Breakpoints, len(tables))
	for p, segs := range tables {
		own[p] = slices.Clone(segs)
	}
	return &Converter{tables: own}
}

// ConvertToAQI interpolates concentration over the pollutant's first matching
// segment. Values no segment contains, including unknown pollutants, are
// returned unchanged.
func (c *Converter) ConvertToAQI(p Pollutant, concentration float64) float64 {
	v, _ := c.Convert(p, concentration)
	return v
}

// Convert is ConvertToAQI plus whether a segment matched.
func (c *Converter) Convert(p Pollutant, concentration float64) (float64, bool) {
	for _, s := range c.tables[p] {
		if s.contains(concentration) {
			return s.interpolate(concentration), true
		}
	}
	return concentration, false
}

// Pollutants lists the configured identifiers in sorted order.
func (c *Converter) Pollutants() []Pollutant {
	out := make([]Pollutant, 0, len(c.tables))
	for p := range c.tables {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Segments returns a copy of the pollutant's table.
func (c *Converter) Segments(p Pollutant) []Segment {
	return slices.Clone(c.tables[p])
}
