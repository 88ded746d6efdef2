package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// DefaultCompareCities is how many cities a comparison shows by default.
const DefaultCompareCities = 4

var pairColors = map[string][2]string{
	"ozone_vs_pm25": {"#d220a5", "#691d82"},
	"no2_vs_co":     {"#877505", "#f3e16c"},
	"no2_vs_ozone":  {"#0010ff", "#8f94e1"},
	"co_vs_pm25":    {"#02ff00", "#3d6e3d"},
	"co_vs_ozone":   {"#ff1a1a", "#f67474"},
}

// Pairs lists the supported comparison pairs in sorted order.
func Pairs() []string {
	out := make([]string, 0, len(pairColors))
	for p := range pairColors {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// CompareSeries holds both converted values for one city.
type CompareSeries struct {
	City string  `json:"city"`
	A    float64 `json:"a"`
	B    float64 `json:"b"`
}

// CompareChart is a grouped bar chart of two pollutants.
type CompareChart struct {
	Country    string           `json:"country"`
	Pair       string           `json:"pair"`
	PollutantA domain.Pollutant `json:"pollutant_a"`
	PollutantB domain.Pollutant `json:"pollutant_b"`
	ColorA     string           `json:"color_a"`
	ColorB     string           `json:"color_b"`
	Series     []CompareSeries  `json:"series"`
	YMax       float64          `json:"y_max"`
}

// Compare converts two pollutants to AQI for the first n records of a
// country. n <= 0 selects DefaultCompareCities.
func (c *Controller) Compare(country, pair string, n int) (CompareChart, error) {
	colors, ok := pairColors[pair]
	if !ok {
		return CompareChart{}, fmt.Errorf("%w: %q", ErrUnknownPair, pair)
	}
	a, b, _ := strings.Cut(pair, "_vs_")
	pa, pb := domain.Pollutant(a), domain.Pollutant(b)
	if n <= 0 {
		n = DefaultCompareCities
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasCountryLocked(country) {
		return CompareChart{}, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	records := c.countryRecordsLocked(country)
	if len(records) > n {
		records = records[:n]
	}

	chart := CompareChart{
		Country:    country,
		Pair:       pair,
		PollutantA: pa,
		PollutantB: pb,
		ColorA:     colors[0],
		ColorB:     colors[1],
		Series:     make([]CompareSeries, 0, len(records)),
	}
	for _, rec := range records {
		s := CompareSeries{
			City: rec[c.schema.CityField],
			A:    c.converter.ConvertToAQI(pa, rec.Float(c.schema.PollutantFields[pa])),
			B:    c.converter.ConvertToAQI(pb, rec.Float(c.schema.PollutantFields[pb])),
		}
		chart.Series = append(chart.Series, s)
		chart.YMax = max(chart.YMax, s.A, s.B)
	}
	return chart, nil
}
