package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Schema names the dataset columns the enrichment and dashboard read.
type Schema struct {
	Name          string
	CityField     string
	CountryField  string
	LatField      string
	LonField      string
	AQIField      string
	CategoryField string

	// PollutantFields maps each pollutant to its value column.
	PollutantFields map[Pollutant]string

	// Parameters maps user-facing display parameters (e.g. "PM2.5 AQI") to columns.
	Parameters map[string]string
}

// WorldSchema matches the world air pollution CSV with per-city coordinates.
var WorldSchema = Schema{
	Name:          "world",
	CityField:     "City",
	CountryField:  "Country",
	LatField:      "lat",
	LonField:      "lng",
	AQIField:      "AQI Value",
	CategoryField: "AQI Category",
	PollutantFields: map[Pollutant]string{
		CO:    "CO AQI Value",
		Ozone: "Ozone AQI Value",
		NO2:   "NO2 AQI Value",
		PM25:  "PM2.5 AQI Value",
	},
	Parameters: map[string]string{
		"AQI":       "AQI Value",
		"CO AQI":    "CO AQI Value",
		"Ozone AQI": "Ozone AQI Value",
		"NO2 AQI":   "NO2 AQI Value",
		"PM2.5 AQI": "PM2.5 AQI Value",
	},
}

// GlobalSchema matches the prepared global air pollution CSV (no coordinates).
var GlobalSchema = Schema{
	Name:          "global",
	CityField:     "city_name",
	CountryField:  "country_name",
	AQIField:      "aqi_value",
	CategoryField: "aqi_category",
	PollutantFields: map[Pollutant]string{
		CO:    "co_aqi_value",
		Ozone: "ozone_aqi_value",
		NO2:   "no2_aqi_value",
		PM25:  "pm2.5_aqi_value",
	},
	Parameters: map[string]string{
		"AQI":       "aqi_value",
		"CO AQI":    "co_aqi_value",
		"Ozone AQI": "ozone_aqi_value",
		"NO2 AQI":   "no2_aqi_value",
		"PM2.5 AQI": "pm2.5_aqi_value",
	},
}

// SchemaByName looks up a built-in schema.
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "world":
		return WorldSchema, nil
	case "global":
		return GlobalSchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown dataset schema %q", name)
	}
}

// ParameterField resolves a display parameter to its column.
func (s Schema) ParameterField(parameter string) (string, bool) {
	f, ok := s.Parameters[parameter]
	return f, ok
}

// ParameterNames lists the display parameters in sorted order.
func (s Schema) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for n := range s.Parameters {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
