package main

import (
	"net/http"

	"forestreport/analysis"
	"forestreport/models"
)

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{
		Status:   "ok",
		Service:  "Microservicio de Análisis",
		Version:  serviceVersion,
		Database: a.cfg.StoreDriver,
	})
}

// handleSpecies computes the species distribution.
func (a *App) handleSpecies(w http.ResponseWriter, r *http.Request) {
	s := analysis.SpeciesDistribution(a.fetchTrees(r.Context()))
	respondAnalysis(a, w, r, models.ReportSpecies, s)
}

// handleTreeCondition computes trees per condition and health status.
func (a *App) handleTreeCondition(w http.ResponseWriter, r *http.Request) {
	s := analysis.TreeCondition(a.fetchTrees(r.Context()))
	respondAnalysis(a, w, r, models.ReportCondition, s)
}

// handleSamples computes samples per type, status and condition.
func (a *App) handleSamples(w http.ResponseWriter, r *http.Request) {
	s := analysis.SampleTypes(a.fetchSamples(r.Context()))
	respondAnalysis(a, w, r, models.ReportSamples, s)
}

// handleDimensions computes DAP and height statistics.
func (a *App) handleDimensions(w http.ResponseWriter, r *http.Request) {
	s := analysis.DimensionStats(a.fetchTrees(r.Context()))
	respondAnalysis(a, w, r, models.ReportDimensions, s)
}

// handleGeneral computes the overview over all three collections.
func (a *App) handleGeneral(w http.ResponseWriter, r *http.Request) {
	snap := a.fetchAll(r.Context())
	s := analysis.GeneralSummary(snap.Trees, snap.Samples, snap.Clusters)
	respondAnalysis(a, w, r, models.ReportGeneral, s)
}

// respondAnalysis stores a non-nil summary and returns it as {success, data}.
// A nil summary is returned as data: null and not stored.
func respondAnalysis[S any](a *App, w http.ResponseWriter, r *http.Request, t models.ReportType, summary *S) {
	if summary != nil {
		if err := a.persist(r.Context(), t, summary); err != nil {
			a.log.WithError(err).WithField("type", t).Error("storing report")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, analysisResp{Success: true, Data: summary})
}
