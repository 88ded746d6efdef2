// Package dashboard holds the selection state and builds the chart models the
// air quality dashboard renders: per-country bar charts, the choropleth fill,
// the city point overlay and pollutant comparisons.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
)

// DefaultParameter is the display parameter selected before any user input.
const DefaultParameter = "AQI"

var (
	ErrUnknownCountry   = errors.New("unknown country")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrUnknownPair      = errors.New("unknown pollutant pair")
)

// State is the user's current selection.
type State struct {
	Country   string `json:"country"`
	Parameter string `json:"parameter"`
}

// Controller owns the dataset and the selection. It is safe for concurrent
// use; streamed readings may arrive while charts are being rendered.
type Controller struct {
	schema    domain.Schema
	converter *domain.Converter
	topLimit  int
	rankField string
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.RWMutex
	records  []domain.Record
	readings []domain.Reading
	state    State

	// Positions of the latest entry per reading ID, so a redelivered or
	// re-streamed reading replaces its row instead of being counted twice.
	readingAt map[string]int
	recordAt  map[string]int
}

// Option configures a Controller.
type Option func(*Controller)

// WithTopLimit sets how many cities a bar chart shows.
func WithTopLimit(n int) Option {
	return func(c *Controller) { c.topLimit = n }
}

// WithRankField sets the column summed to pick the top cities.
func WithRankField(field string) Option {
	return func(c *Controller) {
		if field != "" {
			c.rankField = field
		}
	}
}

// WithLogger sets the logger for dataset and selection events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMetrics reports the dataset size to m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// NewController creates an empty Controller. The rank field defaults to the
// schema's AQI column.
func NewController(schema domain.Schema, conv *domain.Converter, opts ...Option) *Controller {
	c := &Controller{
		schema:    schema,
		converter: conv,
		topLimit:  domain.DefaultTopLimit,
		rankField: schema.AQIField,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:     State{Parameter: DefaultParameter},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the dataset. The current country is cleared when it no
// longer has records.
func (c *Controller) Load(records []domain.Record) {
	readings := make([]domain.Reading, len(records))
	for i, rec := range records {
		readings[i] = domain.EnrichReading(rec, c.schema, c.converter)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = slices.Clone(records)
	c.readings = readings
	c.readingAt = make(map[string]int, len(readings))
	c.recordAt = make(map[string]int, len(readings))
	for i, r := range readings {
		c.readingAt[r.ID] = i
		c.recordAt[r.ID] = i
	}
	if c.state.Country != "" && !c.hasCountryLocked(c.state.Country) {
		c.state.Country = ""
	}
	c.updateGaugeLocked()
	c.logger.Info("dataset loaded", "records", len(records), "schema", c.schema.Name)
}

// LoadBatch merges streamed readings into the dataset. A reading whose ID is
// already held replaces the earlier entry; new IDs are appended. It
// implements pipeline.BatchLoader.
func (c *Controller) LoadBatch(_ context.Context, readings []domain.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readingAt == nil {
		c.readingAt = make(map[string]int)
		c.recordAt = make(map[string]int)
	}

	replaced := 0
	for _, r := range readings {
		if upsert(&c.readings, c.readingAt, r.ID, r) {
			replaced++
		}
		if r.Fields != nil {
			upsert(&c.records, c.recordAt, r.ID, r.Fields)
		}
	}
	c.updateGaugeLocked()
	if replaced > 0 {
		c.logger.Debug("replaced streamed readings", "replaced", replaced, "batch_size", len(readings))
	}
	return nil
}

// Len is the number of records held.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Countries lists the distinct countries in sorted order.
func (c *Controller) Countries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys, _ := domain.GroupBy(c.records, c.schema.CountryField)
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == "" })
	slices.Sort(keys)
	return keys
}

// Parameters lists the selectable display parameters.
func (c *Controller) Parameters() []string {
	return c.schema.ParameterNames()
}

// State returns the current selection.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Select validates and stores a new selection. An empty parameter keeps the
// current one.
func (c *Controller) Select(s State) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.Parameter == "" {
		s.Parameter = c.state.Parameter
	}
	if err := c.validateLocked(s); err != nil {
		return c.state, err
	}
	c.state = s
	c.logger.Debug("selection changed", "country", s.Country, "parameter", s.Parameter)
	return s, nil
}

func (c *Controller) validateLocked(s State) error {
	if !c.hasCountryLocked(s.Country) {
		return fmt.Errorf("%w: %q", ErrUnknownCountry, s.Country)
	}
	if _, ok := c.schema.ParameterField(s.Parameter); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, s.Parameter)
	}
	return nil
}

func (c *Controller) hasCountryLocked(country string) bool {
	if country == "" {
		return false
	}
	for _, rec := range c.records {
		if rec[c.schema.CountryField] == country {
			return true
		}
	}
	return false
}

func (c *Controller) countryRecordsLocked(country string) []domain.Record {
	var out []domain.Record
	for _, rec := range c.records {
		if rec[c.schema.CountryField] == country {
			out = append(out, rec)
		}
	}
	return out
}

// upsert replaces the entry indexed under id or appends v. Empty IDs always
// append. It reports whether an entry was replaced.
func upsert[T any](items *[]T, index map[string]int, id string, v T) bool {
	if i, ok := index[id]; ok && id != "" {
		(*items)[i] = v
		return true
	}
	if id != "" {
		index[id] = len(*items)
	}
	*items = append(*items, v)
	return false
}

func (c *Controller) updateGaugeLocked() {
	if c.metrics != nil {
		c.metrics.DatasetRecords.Set(float64(len(c.records)))
	}
}
