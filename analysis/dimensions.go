package analysis

import (
	"github.com/montanaflynn/stats"

	"forestreport/models"
)

// DAP class boundaries in centimetres. Classes are [0,15), [15,30), [30,60), [60,∞).
const (
	DAPMediumFrom    = 15.0
	DAPLargeFrom     = 30.0
	DAPVeryLargeFrom = 60.0
)

// DimensionStats describes the diameter and height of the trees and
// classifies every tree with a diameter into one DAP class.
func DimensionStats(trees []models.Tree) *models.DimensionSummary {
	if len(trees) == 0 {
		return nil
	}
	var (
		dap, height stats.Float64Data
		classes     models.DAPClasses
	)
	for _, t := range trees {
		if t.DAP != nil {
			dap = append(dap, *t.DAP)
			classify(&classes, *t.DAP)
		}
		if t.Height != nil {
			height = append(height, *t.Height)
		}
	}
	return &models.DimensionSummary{
		DAP:           describe(dap),
		Height:        describe(height),
		Classes:       classes,
		TotalAnalyzed: len(trees),
	}
}

func classify(c *models.DAPClasses, dap float64) {
	switch {
	case dap < DAPMediumFrom:
		c.Small++
	case dap < DAPLargeFrom:
		c.Medium++
	case dap < DAPVeryLargeFrom:
		c.Large++
	default:
		c.VeryLarge++
	}
}

// describe returns nil for no values. The stats functions only fail on empty
// input, so their errors are not checked past the length guard.
func describe(values stats.Float64Data) *models.Stats {
	if values.Len() == 0 {
		return nil
	}
	var s models.Stats
	s.Mean, _ = values.Mean()
	s.Median, _ = values.Median()
	s.Min, _ = values.Min()
	s.Max, _ = values.Max()
	s.Deviation, _ = values.StandardDeviationPopulation()
	return &s
}
