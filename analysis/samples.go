package analysis

import "forestreport/models"

// SampleTypes counts samples per type, status and condition.
func SampleTypes(samples []models.Sample) *models.SampleSummary {
	if len(samples) == 0 {
		return nil
	}
	return &models.SampleSummary{
		TotalSamples: len(samples),
		ByType:       countBy(samples, sampleType),
		ByStatus:     countBy(samples, sampleStatus),
		ByCondition:  countBy(samples, sampleCondition),
	}
}
