package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// DefaultTopLimit is the number of cities shown in a bar chart.
const DefaultTopLimit = 15

// Record is one measurement row keyed by column name. Records are read-only.
type Record map[string]string

// Get returns the trimmed value of field, or "" when absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Float parses field as a real number. Missing, non-numeric and non-finite
// values yield 0.
func (r Record) Float(field string) float64 {
	return parseFloatOrZero(r[field])
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// entityAggregate pairs a group key with its running sum.
type entityAggregate struct {
	key string
	sum float64
}

// TopEntities groups records by groupKey, sums sumField per group and returns
// the keys of the limit largest sums in descending order. Equal sums keep the
// order in which their groups were first seen.
func TopEntities(records []Record, groupKey, sumField string, limit int) []string {
	if len(records) == 0 || limit <= 0 {
		return []string{}
	}

	index := make(map[string]int)
	aggs := make([]entityAggregate, 0)
	for _, rec := range records {
		key := rec[groupKey]
		i, ok := index[key]
		if !ok {
			i = len(aggs)
			index[key] = i
			aggs = append(aggs, entityAggregate{key: key})
		}
		aggs[i].sum += rec.Float(sumField)
	}

	slices.SortStableFunc(aggs, func(a, b entityAggregate) int {
		switch {
		case a.sum > b.sum:
			return -1
		case a.sum < b.sum:
			return 1
		default:
			return 0
		}
	})

	if len(aggs) > limit {
		aggs = aggs[:limit]
	}
	keys := make([]string, len(aggs))
	for i, a := range aggs {
		keys[i] = a.key
	}
	return keys
}

// SelectTop picks the first record for each key and orders the result by
// sortField, largest first. Keys without a record are skipped.
func SelectTop(records []Record, keys []string, groupKey, sortField string) []Record {
	first := make(map[string]Record, len(keys))
	for _, rec := range records {
		k := rec[groupKey]
		if _, ok := first[k]; !ok {
			first[k] = rec
		}
	}

	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		if rec, ok := first[k]; ok {
			out = append(out, rec)
		}
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		av, bv := a.Float(sortField), b.Float(sortField)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
	return out
}

// GroupBy buckets records by field. keys preserves first-seen order.
func GroupBy(records []Record, field string) (keys []string, groups map[string][]Record) {
	groups = make(map[string][]Record)
	for _, rec := range records {
		k := rec[field]
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], rec)
	}
	return keys, groups
}
