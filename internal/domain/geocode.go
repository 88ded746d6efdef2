package domain

import (
	"context"
	"log/slog"
)

// Geocoder looks up coordinates for a city and place details for a coordinate pair.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, city, country string) (GeocodingResult, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// GeocodingResult is one provider match. Confidence ranges from 0 to 1.
type GeocodingResult struct {
	Lat, Lon         float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64
}

// EnrichWithGeocoding fills in location details for the points overlay.
// Readings without coordinates are forward geocoded from city and country;
// readings with coordinates are reverse geocoded for a display address. A nil
// geocoder leaves the reading untouched and failures only set GeoSource.
func EnrichWithGeocoding(ctx context.Context, r Reading, geocoder Geocoder, logger *slog.Logger) Reading {
	if geocoder == nil {
		return r
	}

	if r.Geo.IsZero() {
		if r.City == "" {
			r.GeoSource = "original"
			return r
		}
		result, err := geocoder.ForwardGeocode(ctx, r.City, r.Country)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"reading_id", r.ID,
				"city", r.City,
				"country", r.Country,
				"error", err,
			)
			r.GeoSource = "failed"
			return r
		}
		if result.Lat == 0 && result.Lon == 0 {
			r.GeoSource = "original"
			return r
		}
		r.Geo = Geo{Lat: result.Lat, Lon: result.Lon}
		applyGeocoding(&r, result, "forward")
		return r
	}

	result, err := geocoder.ReverseGeocode(ctx, r.Geo.Lat, r.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"reading_id", r.ID,
			"lat", r.Geo.Lat,
			"lon", r.Geo.Lon,
			"error", err,
		)
		r.GeoSource = "failed"
		return r
	}
	if result.FormattedAddress == "" {
		r.GeoSource = "original"
		return r
	}
	applyGeocoding(&r, result, "reverse")
	return r
}

func applyGeocoding(r *Reading, result GeocodingResult, source string) {
	r.FormattedAddress = result.FormattedAddress
	r.PlaceName = result.PlaceName
	r.GeoConfidence = result.Confidence
	r.GeoSource = source
}
