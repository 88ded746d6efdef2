package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		aqi      float64
		expected Category
	}{
		{0, Good},
		{50, Good},
		{50.5, Moderate},
		{51, Moderate},
		{100, Moderate},
		{150, UnhealthyForSensitiveGroups},
		{151, Unhealthy},
		{200, Unhealthy},
		{300, VeryUnhealthy},
		{301, Hazardous},
		{1000, Hazardous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategoryFor(tt.aqi), "aqi %g", tt.aqi)
	}
}

func TestCategory_Color(t *testing.T) {
	assert.Equal(t, "#00e400", Good.Color())
	assert.Equal(t, "#ff7e00", UnhealthyForSensitiveGroups.Color())
	assert.Equal(t, "#7e0023", Hazardous.Color())
	assert.Equal(t, NoDataColor, Category("Smoky").Color())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" unhealthy for sensitive groups ")
	assert.True(t, ok)
	assert.Equal(t, UnhealthyForSensitiveGroups, c)

	_, ok = ParseCategory("Smoky")
	assert.False(t, ok)
}

func TestCategories_Ordered(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 6)
	assert.Equal(t, Good, cats[0])
	assert.Equal(t, Hazardous, cats[5])
}
