package analysis

import "forestreport/models"

// GeneralSummary rolls the three collections up into one overview. Missing
// collections leave their section zeroed; nil is returned only when all
// three are empty.
func GeneralSummary(trees []models.Tree, samples []models.Sample, clusters []models.Cluster) *models.GeneralSummary {
	if len(trees) == 0 && len(samples) == 0 && len(clusters) == 0 {
		return nil
	}

	out := &models.GeneralSummary{
		Clusters: models.ClusterOverview{
			Total:        len(clusters),
			ByDepartment: countBy(clusters, clusterDepartment),
		},
		Trees: models.TreeOverview{
			Total:         len(trees),
			UniqueSpecies: len(countBy(trees, treeSpecies)),
		},
		Samples: models.SampleOverview{Total: len(samples)},
	}

	// missing keys read as zero
	status := countBy(samples, sampleStatus)
	out.Samples.Pending = status[models.SampleStatusPending]
	out.Samples.Processed = status[models.SampleStatusProcessed]
	return out
}
