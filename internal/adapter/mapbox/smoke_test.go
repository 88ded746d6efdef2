//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/air-quality-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Live Mapbox checks. Needs MAPBOX_TOKEN:
//
//	go test -tags=mapbox ./internal/adapter/mapbox/ -count=1

func liveClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Skip("MAPBOX_TOKEN not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), logger)
}

func TestLive_ForwardCities(t *testing.T) {
	c := liveClient(t)

	cities := []struct {
		city, country string
		lat, lon      float64
	}{
		{"Lima", "Peru", -12.05, -77.04},
		{"Delhi", "India", 28.65, 77.23},
		{"Oslo", "Norway", 59.91, 10.75},
	}
	for _, tc := range cities {
		t.Run(tc.city, func(t *testing.T) {
			got, err := c.ForwardGeocode(context.Background(), tc.city, tc.country)
			require.NoError(t, err)
			assert.InDelta(t, tc.lat, got.Lat, 0.3)
			assert.InDelta(t, tc.lon, got.Lon, 0.3)
			assert.Contains(t, got.FormattedAddress, tc.city)
		})
	}
}

func TestLive_ReverseDelhi(t *testing.T) {
	got, err := liveClient(t).ReverseGeocode(context.Background(), 28.6667, 77.2167)
	require.NoError(t, err)
	assert.NotEmpty(t, got.PlaceName)
	assert.NotEmpty(t, got.FormattedAddress)
}

func TestLive_CacheIgnoresCase(t *testing.T) {
	cached := NewCachedGeocoder(liveClient(t), 10, observability.NewMetricsForTesting())
	ctx := context.Background()

	first, err := cached.ForwardGeocode(ctx, "Pune", "India")
	require.NoError(t, err)
	second, err := cached.ForwardGeocode(ctx, "PUNE", "india")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
