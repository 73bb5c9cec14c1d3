package analysis

import "forestreport/models"

// TopSpeciesLimit is how many species the species report ranks.
const TopSpeciesLimit = 5

// SpeciesDistribution counts trees per species and ranks the most common ones.
func SpeciesDistribution(trees []models.Tree) *models.SpeciesSummary {
	if len(trees) == 0 {
		return nil
	}
	dist := countBy(trees, treeSpecies)
	return &models.SpeciesSummary{
		TotalTrees:    len(trees),
		UniqueSpecies: len(dist),
		Distribution:  dist,
		Top5:          topN(dist, TopSpeciesLimit),
	}
}

// TreeCondition counts trees per condition and per health status. Trees
// without a health status only contribute to the condition table.
func TreeCondition(trees []models.Tree) *models.ConditionSummary {
	if len(trees) == 0 {
		return nil
	}
	return &models.ConditionSummary{
		Total:          len(trees),
		ByCondition:    countBy(trees, treeCondition),
		ByHealthStatus: countBy(trees, treeHealth),
	}
}
