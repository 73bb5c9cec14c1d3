package pdfreport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestreport/models"
)

var generatedAt = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func speciesSummary() *models.SpeciesSummary {
	return &models.SpeciesSummary{
		TotalTrees:    3,
		UniqueSpecies: 2,
		Distribution:  models.Counts{"Roble": 2, "Pino": 1},
		Top5:          models.RankedCounts{{Value: "Roble", Count: 2}, {Value: "Pino", Count: 1}},
	}
}

func TestSpeciesRows(t *testing.T) {
	assert.Equal(t, []SpeciesRow{
		{Species: "Roble", Count: "2", Percent: "66.67%"},
		{Species: "Pino", Count: "1", Percent: "33.33%"},
	}, SpeciesRows(speciesSummary()))

	assert.Equal(t, []SpeciesRow{{Species: "Ceiba", Count: "0", Percent: "0.00%"}},
		SpeciesRows(&models.SpeciesSummary{Top5: models.RankedCounts{{Value: "Ceiba"}}}))
}

func TestGeneralBlocks(t *testing.T) {
	blocks := GeneralBlocks(&models.GeneralSummary{
		Clusters: models.ClusterOverview{Total: 4},
		Trees:    models.TreeOverview{Total: 10, UniqueSpecies: 3},
		Samples:  models.SampleOverview{Total: 5, Pending: 2, Processed: 1},
	})
	require.Len(t, blocks, 3)
	assert.Equal(t, "CONGLOMERADOS", blocks[0].Heading)
	assert.Equal(t, []string{"Total de conglomerados registrados: 4"}, blocks[0].Lines)
	assert.Equal(t, []string{"Total de árboles: 10", "Especies únicas: 3"}, blocks[1].Lines)
	assert.Equal(t, []string{
		"Total de muestras: 5", "Muestras pendientes: 2", "Muestras procesadas: 1",
	}, blocks[2].Lines)
}

func TestRenderSpecies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSpecies(&buf, speciesSummary(), generatedAt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))
}

func TestRenderGeneral(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGeneral(&buf, &models.GeneralSummary{Trees: models.TreeOverview{Total: 1}}, generatedAt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderNilSummary(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderSpecies(&buf, nil, generatedAt), ErrNoData)
	assert.ErrorIs(t, RenderGeneral(&buf, nil, generatedAt), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestLatin(t *testing.T) {
	assert.Equal(t, "\xc1rboles", latin("Árboles"))
	assert.Equal(t, "Espa\xf1a", latin("España"))
}
