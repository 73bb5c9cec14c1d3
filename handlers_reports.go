package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"forestreport/analysis"
	"forestreport/models"
	"forestreport/pdfreport"
	"forestreport/reportstore"
)

// History queries default to 50 rows, also when filtered by type.
const historyDefaultLimit = reportstore.DefaultListAllLimit

// handleHistory lists stored reports, optionally filtered by ?tipo=.
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reportType := models.ReportType(q.Get("tipo"))
	if reportType != "" && !reportType.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report type %q", reportType))
		return
	}

	limit := historyDefaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	var (
		reports []models.Report
		err     error
	)
	if reportType != "" {
		reports, err = a.store.ListByType(r.Context(), reportType, limit)
	} else {
		reports, err = a.store.ListAll(r.Context(), limit)
	}
	if err != nil {
		if errors.As(err, &reportstore.ErrInvalidLimit{}) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.log.WithError(err).Error("listing reports")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyResp{Success: true, Total: len(reports), Reports: reports})
}

// handleSpeciesPDF renders the species distribution as a PDF download.
func (a *App) handleSpeciesPDF(w http.ResponseWriter, r *http.Request) {
	s := analysis.SpeciesDistribution(a.fetchTrees(r.Context()))
	now := a.now()
	var buf bytes.Buffer
	err := pdfreport.RenderSpecies(&buf, s, now)
	a.sendPDF(w, fmt.Sprintf("reporte_especies_%s.pdf", now.Format("20060102_150405")), &buf, err)
}

// handleGeneralPDF renders the inventory overview as a PDF download.
func (a *App) handleGeneralPDF(w http.ResponseWriter, r *http.Request) {
	snap := a.fetchAll(r.Context())
	s := analysis.GeneralSummary(snap.Trees, snap.Samples, snap.Clusters)
	now := a.now()
	var buf bytes.Buffer
	err := pdfreport.RenderGeneral(&buf, s, now)
	a.sendPDF(w, fmt.Sprintf("resumen_general_%s.pdf", now.Format("20060102_150405")), &buf, err)
}

func (a *App) sendPDF(w http.ResponseWriter, filename string, buf *bytes.Buffer, err error) {
	switch {
	case errors.Is(err, pdfreport.ErrNoData):
		writeError(w, http.StatusNotFound, "No hay datos disponibles")
		return
	case err != nil:
		a.log.WithError(err).Error("rendering pdf")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.log.WithField("file", filename).Infof("pdf rendered (%s)", humanize.Bytes(uint64(buf.Len())))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
