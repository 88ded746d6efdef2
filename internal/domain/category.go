package domain

import "strings"

// Category is the EPA health label for an AQI value.
type Category string

const (
	Good                        Category = "Good"
	Moderate                    Category = "Moderate"
	UnhealthyForSensitiveGroups Category = "Unhealthy for Sensitive Groups"
	Unhealthy                   Category = "Unhealthy"
	VeryUnhealthy               Category = "Very Unhealthy"
	Hazardous                   Category = "Hazardous"
)

// NoDataColor fills map regions without measurements.
const NoDataColor = "lightblue"

var categoryColors = map[Category]string{
	Good:                        "#00e400",
	Moderate:                    "#ffff00",
	UnhealthyForSensitiveGroups: "#ff7e00",
	Unhealthy:                   "#ff0000",
	VeryUnhealthy:               "#99004c",
	Hazardous:                   "#7e0023",
}

// Categories returns all categories from best to worst, for legends.
func Categories() []Category {
	return []Category{Good, Moderate, UnhealthyForSensitiveGroups, Unhealthy, VeryUnhealthy, Hazardous}
}

// CategoryFor classifies an AQI value.
func CategoryFor(aqi float64) Category {
	switch {
	case aqi <= 50:
		return Good
	case aqi <= 100:
		return Moderate
	case aqi <= 150:
		return UnhealthyForSensitiveGroups
	case aqi <= 200:
		return Unhealthy
	case aqi <= 300:
		return VeryUnhealthy
	default:
		return Hazardous
	}
}

// ParseCategory matches a dataset label case-insensitively. The second
// result is false for unknown labels.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories() {
		if strings.EqualFold(label, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Color is the legend fill for c; unknown categories get NoDataColor.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return NoDataColor
}
