// Command rank prints the bar chart model for one country of a dataset as
// JSON. Without -country it lists the countries with the highest AQI totals.
//
// Usage:
//
//	go run ./cmd/rank -csv data/mock/world_air_pollution_sample.csv -country India -parameter "PM2.5 AQI"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/air-quality-etl/internal/adapter/dataset"
	"github.com/couchcryptid/air-quality-etl/internal/config"
	"github.com/couchcryptid/air-quality-etl/internal/dashboard"
	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	csvPath := fs.String("csv", os.Getenv("DATASET_PATH"), "dataset CSV file")
	schemaName := fs.String("schema", os.Getenv("DATASET_SCHEMA"), "dataset schema: world or global")
	country := fs.String("country", "", "country to chart; empty lists top countries")
	parameter := fs.String("parameter", dashboard.DefaultParameter, "display parameter")
	limit := fs.Int("limit", domain.DefaultTopLimit, "number of entries")
	rankField := fs.String("rank-field", "", "column summed to rank cities (default: the schema's AQI column)")
	breakpoints := fs.String("breakpoints", os.Getenv("BREAKPOINTS_FILE"), "breakpoint TOML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *csvPath == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	schema, err := domain.SchemaByName(*schemaName)
	if err != nil {
		return err
	}
	tables, err := config.LoadBreakpoints(*breakpoints)
	if err != nil {
		return err
	}
	records, err := dataset.LoadCSV(*csvPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if *country == "" {
		field := *rankField
		if field == "" {
			field = schema.AQIField
		}
		return enc.Encode(domain.TopEntities(records, schema.CountryField, field, *limit))
	}

	dash := dashboard.NewController(schema, domain.NewConverter(tables),
		dashboard.WithTopLimit(*limit),
		dashboard.WithRankField(*rankField),
	)
	dash.Load(records)

	chart, err := dash.BarChart(dashboard.State{Country: *country, Parameter: *parameter})
	if err != nil {
		return err
	}
	return enc.Encode(chart)
}
