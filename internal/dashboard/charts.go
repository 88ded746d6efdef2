package dashboard

import (
	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// Bar is one city in a bar chart.
type Bar struct {
	City     string          `json:"city"`
	Value    float64         `json:"value"`
	Category domain.Category `json:"category"`
	Color    string          `json:"color"`
}

// BarChart shows the top cities of one country for one parameter.
type BarChart struct {
	Country   string  `json:"country"`
	Parameter string  `json:"parameter"`
	Label     string  `json:"label"`
	Bars      []Bar   `json:"bars"`
	YMax      float64 `json:"y_max"`
}

// BarChart ranks the country's cities by the summed rank field, keeps the top
// ones and orders them by the selected parameter.
func (c *Controller) BarChart(s State) (BarChart, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s.Parameter == "" {
		s.Parameter = DefaultParameter
	}
	if err := c.validateLocked(s); err != nil {
		return BarChart{}, err
	}
	field, _ := c.schema.ParameterField(s.Parameter)

	records := c.countryRecordsLocked(s.Country)
	keys := domain.TopEntities(records, c.schema.CityField, c.rankField, c.topLimit)
	top := domain.SelectTop(records, keys, c.schema.CityField, field)

	chart := BarChart{
		Country:   s.Country,
		Parameter: s.Parameter,
		Label:     s.Parameter + " Value",
		Bars:      make([]Bar, 0, len(top)),
	}
	for _, rec := range top {
		v := rec.Float(field)
		cat := domain.CategoryFor(v)
		chart.Bars = append(chart.Bars, Bar{
			City:     rec[c.schema.CityField],
			Value:    v,
			Category: cat,
			Color:    cat.Color(),
		})
		chart.YMax = max(chart.YMax, v)
	}
	return chart, nil
}

// CountryFill is the choropleth style of one map feature. DataCountry is set
// when the feature was joined to a differently spelled dataset country.
type CountryFill struct {
	Country     string          `json:"country"`
	DataCountry string          `json:"data_country,omitempty"`
	AQI         float64         `json:"aqi"`
	Category    domain.Category `json:"category,omitempty"`
	Color       string          `json:"color"`
	NoData      bool            `json:"no_data"`
}

// Choropleth colors each feature by the category of its country's first
// record. Features without records get NoDataColor. With no feature names
// the dataset's own countries are used.
//
// Feature names equal to a dataset country join directly. Remaining dataset
// countries are matched to the remaining features with a NameMatcher; the
// first dataset country to claim a feature keeps it.
func (c *Controller) Choropleth(featureNames []string) []CountryFill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, groups := domain.GroupBy(c.records, c.schema.CountryField)
	if len(featureNames) == 0 {
		featureNames = keys
	}
	joined := joinFeatures(featureNames, keys)

	fills := make([]CountryFill, 0, len(featureNames))
	for _, name := range featureNames {
		src := joined[name]
		recs := groups[src]
		if name == "" || len(recs) == 0 {
			fills = append(fills, CountryFill{Country: name, Color: domain.NoDataColor, NoData: true})
			continue
		}
		first := recs[0]
		aqi := first.Float(c.schema.AQIField)
		cat, ok := domain.ParseCategory(first.Get(c.schema.CategoryField))
		if !ok {
			cat = domain.CategoryFor(aqi)
		}
		fill := CountryFill{Country: name, AQI: aqi, Category: cat, Color: cat.Color()}
		if src != name {
			fill.DataCountry = src
		}
		fills = append(fills, fill)
	}
	return fills
}

// joinFeatures maps feature names to the dataset country that supplies their
// data.
func joinFeatures(features, countries []string) map[string]string {
	joined := make(map[string]string, len(features))
	known := make(map[string]bool, len(countries))
	for _, k := range countries {
		known[k] = true
	}
	var open []string
	for _, f := range features {
		if known[f] {
			joined[f] = f
		} else if f != "" {
			open = append(open, f)
		}
	}
	if len(open) == 0 {
		return joined
	}

	m := NewNameMatcher(open)
	for _, k := range countries {
		if k == "" || joined[k] == k {
			continue
		}
		if f, _, ok := m.Match(k); ok {
			if _, taken := joined[f]; !taken {
				joined[f] = k
			}
		}
	}
	return joined
}

// Point is one city marker on the map overlay.
type Point struct {
	ID         string                                       `json:"id"`
	City       string                                       `json:"city"`
	Country    string                                       `json:"country"`
	Lat        float64                                      `json:"lat"`
	Lon        float64                                      `json:"lon"`
	AQI        float64                                      `json:"aqi"`
	Category   domain.Category                              `json:"category"`
	Color      string                                       `json:"color"`
	Address    string                                       `json:"address,omitempty"`
	Pollutants map[domain.Pollutant]domain.PollutantReading `json:"pollutants"`
}

// Points returns a marker for every reading with coordinates. An empty
// country returns all of them.
func (c *Controller) Points(country string) []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := make([]Point, 0, len(c.readings))
	for _, r := range c.readings {
		if r.Geo.IsZero() || (country != "" && r.Country != country) {
			continue
		}
		points = append(points, Point{
			ID:         r.ID,
			City:       r.City,
			Country:    r.Country,
			Lat:        r.Geo.Lat,
			Lon:        r.Geo.Lon,
			AQI:        r.AQI,
			Category:   r.Category,
			Color:      r.Category.Color(),
			Address:    r.FormattedAddress,
			Pollutants: r.Pollutants,
		})
	}
	return points
}

// LegendEntry is one row of the category legend.
type LegendEntry struct {
	Category domain.Category `json:"category"`
	Color    string          `json:"color"`
	Min      int             `json:"min"`
	Max      int             `json:"max"`
}

var legendRanges = map[domain.Category][2]int{
	domain.Good:                        {0, 50},
	domain.Moderate:                    {51, 100},
	domain.UnhealthyForSensitiveGroups: {101, 150},
	domain.Unhealthy:                   {151, 200},
	domain.VeryUnhealthy:               {201, 300},
	domain.Hazardous:                   {301, 500},
}

// Legend lists the categories from best to worst.
func Legend() []LegendEntry {
	cats := domain.Categories()
	out := make([]LegendEntry, len(cats))
	for i, cat := range cats {
		r := legendRanges[cat]
		out[i] = LegendEntry{Category: cat, Color: cat.Color(), Min: r[0], Max: r[1]}
	}
	return out
}
