package dashboard

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
)

type row struct {
	country, city, category string
	aqi, co, ozone, no2, pm float64
	lat, lng                float64
}

func (r row) record() domain.Record {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return domain.Record{
		"Country":         r.country,
		"City":            r.city,
		"AQI Value":       f(r.aqi),
		"AQI Category":    r.category,
		"CO AQI Value":    f(r.co),
		"Ozone AQI Value": f(r.ozone),
		"NO2 AQI Value":   f(r.no2),
		"PM2.5 AQI Value": f(r.pm),
		"lat":             f(r.lat),
		"lng":             f(r.lng),
	}
}

func testRecords() []domain.Record {
	rows := []row{
		{"India", "Delhi", "Unhealthy", 184, 4, 46, 12, 184, 28.6667, 77.2167},
		{"India", "Mumbai", "Unhealthy", 152, 2, 40, 8, 152, 19.0728, 72.8826},
		{"India", "Pune", "Unhealthy for Sensitive Groups", 110, 1, 35, 3, 110, 18.5196, 73.8553},
		{"India", "Kolkata", "Unhealthy", 174, 3, 28, 9, 174, 22.5411, 88.3378},
		{"India", "Bengaluru", "Moderate", 89, 1, 30, 4, 89, 12.9716, 77.5946},
		{"Peru", "Lima", "Moderate", 77, 1, 8, 2, 77, -12.0464, -77.0428},
		{"Peru", "Cusco", "Good", 29, 0, 29, 0, 21, 0, 0},
		{"Norway", "Oslo", "", 22, 1, 22, 5, 18, 59.9139, 10.7522},
	}
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out
}

func newTestController(opts ...Option) *Controller {
	c := NewController(domain.WorldSchema, domain.NewConverter(nil), opts...)
	c.Load(testRecords())
	return c
}

func barCities(chart BarChart) []string {
	out := make([]string, len(chart.Bars))
	for i, b := range chart.Bars {
		out[i] = b.City
	}
	return out
}

func TestController_CountriesAndDefaults(t *testing.T) {
	c := newTestController()

	assert.Equal(t, []string{"India", "Norway", "Peru"}, c.Countries())
	assert.Equal(t, State{Parameter: DefaultParameter}, c.State())
	assert.Equal(t, 8, c.Len())
	assert.Contains(t, c.Parameters(), "PM2.5 AQI")
}

func TestController_Select(t *testing.T) {
	c := newTestController()

	got, err := c.Select(State{Country: "India", Parameter: "Ozone AQI"})
	require.NoError(t, err)
	assert.Equal(t, State{Country: "India", Parameter: "Ozone AQI"}, got)

	got, err = c.Select(State{Country: "Peru"})
	require.NoError(t, err)
	assert.Equal(t, "Ozone AQI", got.Parameter, "empty parameter keeps the current one")

	_, err = c.Select(State{Country: "Atlantis", Parameter: "AQI"})
	require.ErrorIs(t, err, ErrUnknownCountry)

	_, err = c.Select(State{Country: "India", Parameter: "SO2 AQI"})
	require.ErrorIs(t, err, ErrUnknownParameter)

	assert.Equal(t, State{Country: "Peru", Parameter: "Ozone AQI"}, c.State(), "failed selections leave state unchanged")
}

func TestController_BarChart_RanksByAQIAndOrdersByParameter(t *testing.T) {
	c := newTestController(WithTopLimit(3))

	chart, err := c.BarChart(State{Country: "India", Parameter: "Ozone AQI"})
	require.NoError(t, err)

	// Top three by AQI are Delhi, Kolkata and Mumbai; ozone decides the order.
	assert.Equal(t, []string{"Delhi", "Mumbai", "Kolkata"}, barCities(chart))
	assert.Equal(t, "Ozone AQI Value", chart.Label)
	assert.Equal(t, 46.0, chart.YMax)
	assert.Equal(t, domain.Good, chart.Bars[0].Category)
	assert.Equal(t, domain.Good.Color(), chart.Bars[0].Color)
}

func TestController_BarChart_DefaultParameter(t *testing.T) {
	c := newTestController()

	chart, err := c.BarChart(State{Country: "India"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Delhi", "Kolkata", "Mumbai", "Pune", "Bengaluru"}, barCities(chart))
	assert.Equal(t, 184.0, chart.YMax)
	assert.Equal(t, domain.Unhealthy, chart.Bars[0].Category)
}

func TestController_BarChart_Idempotent(t *testing.T) {
	c := newTestController()
	s := State{Country: "Peru", Parameter: "PM2.5 AQI"}

	first, err := c.BarChart(s)
	require.NoError(t, err)
	second, err := c.BarChart(s)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated render differs (-first +second):\n%s", diff)
	}
}

func TestController_BarChart_Errors(t *testing.T) {
	c := newTestController()

	_, err := c.BarChart(State{Country: "Atlantis"})
	require.ErrorIs(t, err, ErrUnknownCountry)

	_, err = c.BarChart(State{Country: "India", Parameter: "Humidity"})
	require.ErrorIs(t, err, ErrUnknownParameter)
}

func TestController_BarChart_ZeroLimit(t *testing.T) {
	c := newTestController(WithTopLimit(0))

	chart, err := c.BarChart(State{Country: "India"})
	require.NoError(t, err)
	assert.Empty(t, chart.Bars)
	assert.NotNil(t, chart.Bars)
}

func TestController_Choropleth(t *testing.T) {
	c := newTestController()

	fills := c.Choropleth([]string{"India", "Norway", "France"})

	require.Len(t, fills, 3)
	assert.Equal(t, CountryFill{Country: "India", AQI: 184, Category: domain.Unhealthy, Color: "#ff0000"}, fills[0])
	assert.Equal(t, domain.Good, fills[1].Category, "missing label falls back to the AQI value")
	assert.Equal(t, CountryFill{Country: "France", Color: domain.NoDataColor, NoData: true}, fills[2])
}

func TestController_Choropleth_DatasetCountries(t *testing.T) {
	c := newTestController()

	fills := c.Choropleth(nil)

	require.Len(t, fills, 3)
	assert.Equal(t, "India", fills[0].Country)
	assert.Equal(t, "Peru", fills[1].Country)
	assert.Equal(t, domain.Moderate, fills[1].Category)
}

func TestController_Choropleth_JoinsSpellingVariants(t *testing.T) {
	c := NewController(domain.WorldSchema, domain.NewConverter(nil))
	c.Load([]domain.Record{
		row{"United States", "Denver", "Good", 35, 1, 35, 4, 20, 39.7392, -104.9903}.record(),
		row{"Niger", "Niamey", "Unhealthy", 160, 1, 20, 3, 160, 13.5116, 2.1254}.record(),
		row{"Peru", "Lima", "Moderate", 77, 1, 8, 2, 77, -12.0464, -77.0428}.record(),
	})

	fills := c.Choropleth([]string{"United States of America", "Nigeria", "Niger", "Peru"})

	require.Len(t, fills, 4)
	assert.Equal(t, CountryFill{
		Country:     "United States of America",
		DataCountry: "United States",
		AQI:         35,
		Category:    domain.Good,
		Color:       domain.Good.Color(),
	}, fills[0])
	assert.True(t, fills[1].NoData, "Nigeria must not borrow Niger's data")
	assert.Equal(t, domain.Unhealthy, fills[2].Category)
	assert.Empty(t, fills[2].DataCountry)
	assert.Equal(t, "", fills[3].DataCountry)
	assert.Equal(t, domain.Moderate, fills[3].Category)
}

func TestController_Points(t *testing.T) {
	c := newTestController()

	all := c.Points("")
	assert.Len(t, all, 7, "Cusco has no coordinates")

	peru := c.Points("Peru")
	require.Len(t, peru, 1)
	assert.Equal(t, "Lima", peru[0].City)
	assert.Equal(t, -12.0464, peru[0].Lat)
	assert.Equal(t, domain.Moderate, peru[0].Category)
	assert.Contains(t, peru[0].Pollutants, domain.PM25)
}

func TestController_LoadBatch(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	c := newTestController(WithMetrics(metrics))
	assert.Equal(t, 8.0, testutil.ToFloat64(metrics.DatasetRecords))

	kenya := row{"Kenya", "Nairobi", "Good", 41, 1, 41, 1, 34, -1.2921, 36.8219}.record()
	reading := domain.EnrichReading(kenya, domain.WorldSchema, domain.NewConverter(nil))
	geocodedOnly := domain.Reading{City: "Nowhere", Geo: domain.Geo{Lat: 1, Lon: 1}}

	require.NoError(t, c.LoadBatch(context.Background(), []domain.Reading{reading, geocodedOnly}))

	assert.Contains(t, c.Countries(), "Kenya")
	assert.Equal(t, 9, c.Len(), "readings without fields add no records")
	assert.Len(t, c.Points(""), 9)
	assert.Equal(t, 9.0, testutil.ToFloat64(metrics.DatasetRecords))

	_, err := c.Select(State{Country: "Kenya"})
	assert.NoError(t, err)
}

func TestController_LoadBatch_RedeliveredBatchReplaces(t *testing.T) {
	c := NewController(domain.WorldSchema, domain.NewConverter(nil), WithTopLimit(1))
	c.Load([]domain.Record{row{"Chile", "Valparaiso", "Moderate", 60, 1, 20, 3, 60, -33.0472, -71.6127}.record()})

	santiago := domain.EnrichReading(
		row{"Chile", "Santiago", "Good", 40, 1, 40, 2, 30, -33.4489, -70.6693}.record(),
		domain.WorldSchema, domain.NewConverter(nil))
	batch := []domain.Reading{santiago}

	require.NoError(t, c.LoadBatch(context.Background(), batch))
	require.NoError(t, c.LoadBatch(context.Background(), batch))

	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.Points("Chile"), 2)
	chart, err := c.BarChart(State{Country: "Chile"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Valparaiso"}, barCities(chart), "a replayed 40 must not outrank 60")
}

func TestController_LoadBatch_StreamedRowMatchingDatasetReplaces(t *testing.T) {
	c := newTestController()
	before, err := c.BarChart(State{Country: "India"})
	require.NoError(t, err)

	conv := domain.NewConverter(nil)
	replay := make([]domain.Reading, 0, 5)
	for _, rec := range testRecords()[:5] {
		replay = append(replay, domain.EnrichReading(rec, domain.WorldSchema, conv))
	}
	require.NoError(t, c.LoadBatch(context.Background(), replay))

	after, err := c.BarChart(State{Country: "India"})
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())
	if diff := cmp.Diff(barCities(before), barCities(after)); diff != "" {
		t.Fatalf("bar chart changed after replay (-before +after):\n%s", diff)
	}
	assert.Equal(t, domain.TopEntities(testRecords(), "City", "AQI Value", 15),
		domain.TopEntities(c.records, "City", "AQI Value", 15))
}

func TestController_LoadBatch_UpdatedReadingWins(t *testing.T) {
	c := newTestController()

	delhi := testRecords()[0]
	delhi["AQI Value"] = "20"
	delhi["AQI Category"] = "Good"
	updated := domain.EnrichReading(delhi, domain.WorldSchema, domain.NewConverter(nil))
	require.NoError(t, c.LoadBatch(context.Background(), []domain.Reading{updated}))

	fills := c.Choropleth([]string{"India"})
	require.Len(t, fills, 1)
	assert.Equal(t, domain.Good, fills[0].Category, "first India row now carries the update")
	assert.Equal(t, 8, c.Len())
}

func TestController_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	newTestController(WithLogger(logger))

	assert.Contains(t, buf.String(), "dataset loaded")
	assert.Contains(t, buf.String(), "records=8")
}

func TestController_LoadClearsStaleCountry(t *testing.T) {
	c := newTestController()
	_, err := c.Select(State{Country: "Peru"})
	require.NoError(t, err)

	c.Load(testRecords()[:5])

	assert.Equal(t, "", c.State().Country)
	assert.Equal(t, []string{"India"}, c.Countries())
}

func TestController_RankField(t *testing.T) {
	c := newTestController(WithRankField("Ozone AQI Value"), WithTopLimit(2))

	chart, err := c.BarChart(State{Country: "India"})
	require.NoError(t, err)

	// Ozone picks Delhi and Mumbai; AQI orders them.
	assert.Equal(t, []string{"Delhi", "Mumbai"}, barCities(chart))
}

func TestController_ConcurrentAccess(t *testing.T) {
	c := newTestController()
	extra := []domain.Reading{domain.EnrichReading(testRecords()[0], domain.WorldSchema, domain.NewConverter(nil))}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.LoadBatch(context.Background(), extra)
		}()
		go func() {
			defer wg.Done()
			_, _ = c.BarChart(State{Country: "India"})
			_ = c.Choropleth(nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, c.Len(), "Delhi is replaced, not duplicated")
}

func TestLegend(t *testing.T) {
	legend := Legend()

	require.Len(t, legend, 6)
	assert.Equal(t, LegendEntry{Category: domain.Good, Color: "#00e400", Min: 0, Max: 50}, legend[0])
	assert.Equal(t, LegendEntry{Category: domain.Hazardous, Color: "#7e0023", Min: 301, Max: 500}, legend[5])
	for _, e := range legend {
		assert.Equal(t, e.Category, domain.CategoryFor(float64(e.Min)))
		assert.Equal(t, e.Category, domain.CategoryFor(float64(e.Max)))
	}
}
