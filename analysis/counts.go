// Package analysis turns fetched inventory records into report summaries.
//
// Every function is pure: inputs are never modified and nothing is fetched
// or stored. A function returns nil when its required collection is empty.
// Totals count every record; a record missing an attribute is only left out
// of the table or statistic built from that attribute.
package analysis

import (
	"sort"

	"forestreport/models"
)

// countBy builds a frequency table of key over items. Items for which key
// reports no value are left out of the table.
func countBy[T any](items []T, key func(T) (string, bool)) models.Counts {
	out := models.Counts{}
	for _, it := range items {
		if v, ok := key(it); ok {
			out[v]++
		}
	}
	return out
}

// topN returns the n most frequent values, count descending and value
// ascending among equal counts.
func topN(c models.Counts, n int) models.RankedCounts {
	ranked := make(models.RankedCounts, 0, len(c))
	for v, cnt := range c {
		ranked = append(ranked, models.RankedCount{Value: v, Count: cnt})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func optional(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func treeSpecies(t models.Tree) (string, bool)   { return optional(t.Species) }
func treeCondition(t models.Tree) (string, bool) { return optional(t.Condition) }
func treeHealth(t models.Tree) (string, bool)    { return optional(t.HealthStatus) }

func sampleType(s models.Sample) (string, bool)      { return optional(s.Type) }
func sampleStatus(s models.Sample) (string, bool)    { return optional(s.Status) }
func sampleCondition(s models.Sample) (string, bool) { return optional(s.Condition) }

func clusterDepartment(c models.Cluster) (string, bool) { return optional(c.Department) }
