// Package domain models city air-quality measurements and the two numeric
// operations the visualizations depend on.
//
// # Data Source
//
// Measurements come from static air pollution datasets (one row per city) that
// the collector publishes as flat JSON objects to the Kafka source topic, or
// that the dashboard reads directly from CSV. Column names differ between
// datasets; a [Schema] maps them.
//
// # AQI Conversion
//
// [Converter.ConvertToAQI] maps a concentration onto the 0–500 Air Quality
// Index by linear interpolation inside the matching breakpoint [Segment]:
//
//	aqi = (aHigh - aLow) / (cHigh - cLow) * (c - cLow) + aLow
//
// Segments are scanned in ascending order and the first one containing c
// (inclusive on both ends) wins, so a value sitting on a shared boundary
// belongs to the lower segment. The published tables leave gaps between
// segments (e.g. ozone 54 → 55); values in a gap or above the last segment are
// returned unchanged so the rendering layer always receives a number.
//
//	Ozone (ppb):   0–54 | 55–70 | 71–85 | 86–105 | 106–200 | 201–404
//	PM2.5 (µg/m³): 0–12 | 12.1–35.4 | 35.5–55.4 | 55.5–150.4 | 150.5–250.4 | 250.5–500.4
//	CO (ppm):      0–4.4 | 4.5–9.4 | 9.5–12.4 | 12.5–15.4 | 15.5–30.4 | 30.5–50.4
//	NO2 (ppb):     0–53 | 54–100 | 101–360 | 361–649 | 650–1249 | 1250–2049
//	AQI:           0–50 | 51–100 | 101–150 | 151–200 | 201–300 | 301–500
//
// # Top Cities
//
// [TopEntities] sums a numeric column per group and keeps the largest groups.
// Missing or non-numeric cells count as zero. The bar chart always ranks by
// the overall "AQI Value" sum and only then orders the selected cities by the
// parameter the user is viewing (see [SelectTop]).
//
// # Categories
//
//	0–50 Good | 51–100 Moderate | 101–150 Unhealthy for Sensitive Groups |
//	151–200 Unhealthy | 201–300 Very Unhealthy | 301+ Hazardous
//
// # ID Generation
//
// Reading IDs are truncated SHA-256 hashes of country|city|lat|lon, so replayed
// rows keep the same Kafka key. See [generateID].
package domain
