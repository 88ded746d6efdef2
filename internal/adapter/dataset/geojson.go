package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// LoadFeatureNames returns properties.name of every feature in a GeoJSON
// FeatureCollection, in file order. Features without a string name are skipped.
func LoadFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	return ParseFeatureNames(data)
}

// ParseFeatureNames is LoadFeatureNames over an in-memory document.
func ParseFeatureNames(data []byte) ([]string, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode geojson: expected FeatureCollection, got %q", fc.Type)
	}

	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if name, ok := f.Properties["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
