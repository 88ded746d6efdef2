// Command genmock converts an air pollution CSV into the fixtures used by the
// pipeline tests: the raw rows as they arrive on the source topic, and the
// enriched readings the pipeline publishes. It runs the real domain
// enrichment so the fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/world_air_pollution_sample.csv \
//	  -raw-out data/mock/world_air_pollution_sample.json \
//	  -enriched-out data/mock/world_air_pollution_enriched.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/air-quality-etl/internal/adapter/dataset"
	"github.com/couchcryptid/air-quality-etl/internal/config"
	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "source CSV file")
	schemaName := flag.String("schema", "world", "dataset schema: world or global")
	rawOut := flag.String("raw-out", "", "output path for the raw JSON fixture")
	enrichedOut := flag.String("enriched-out", "", "output path for the enriched readings (optional)")
	breakpoints := flag.String("breakpoints", "", "breakpoint TOML file (default: built-in tables)")
	flag.Parse()

	if *csvPath == "" || *rawOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -raw-out")
	}

	schema, err := domain.SchemaByName(*schemaName)
	if err != nil {
		return err
	}
	tables, err := config.LoadBreakpoints(*breakpoints)
	if err != nil {
		return err
	}
	conv := domain.NewConverter(tables)

	records, err := dataset.LoadCSV(*csvPath)
	if err != nil {
		return err
	}
	log.Printf("read %d records from %s", len(records), *csvPath)

	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	readings := make([]domain.Reading, len(records))
	for i, rec := range records {
		readings[i] = domain.EnrichReading(rec, schema, conv)
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if *enrichedOut != "" {
		if err := writeJSON(*enrichedOut, readings); err != nil {
			return fmt.Errorf("writing enriched fixture: %w", err)
		}
		log.Printf("wrote enriched fixture: %s", *enrichedOut)
	}

	printStats(records, readings, schema)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(records []domain.Record, readings []domain.Reading, schema domain.Schema) {
	categories := map[domain.Category]int{}
	conversions := map[string]int{}
	for _, r := range readings {
		categories[r.Category]++
		for p, pr := range r.Pollutants {
			outcome := "segment"
			if !pr.InRange {
				outcome = "fallback"
			}
			conversions[string(p)+"/"+outcome]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(readings))
	fmt.Print("By category:")
	for _, c := range domain.Categories() {
		fmt.Printf(" %q=%d", c, categories[c])
	}
	fmt.Println()

	keys := make([]string, 0, len(conversions))
	for k := range conversions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Print("Conversions:")
	for _, k := range keys {
		fmt.Printf(" %s=%d", k, conversions[k])
	}
	fmt.Println()

	top := domain.TopEntities(records, schema.CountryField, schema.AQIField, 5)
	fmt.Printf("Top countries by AQI total: %v\n", top)
}
