package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestreport/models"
	"forestreport/reportstore"
	"forestreport/upstream"
)

const (
	treesJSON = `[
		{"especie":"Roble","dap":12,"altura":8,"condicion":"Vivo","sanitario":"Sano"},
		{"especie":"Roble","dap":20,"altura":10,"condicion":"Vivo"},
		{"especie":"Pino","dap":40,"altura":15,"condicion":"Tumbado"}
	]`
	samplesJSON  = `[{"tipo":"Hoja","estado":"Pendiente"},{"tipo":"Suelo","estado":"Procesado","condicion":"Seca"}]`
	clustersJSON = `[{"departamento":"Meta"}]`
)

type upstreamData map[string]string // collection -> body; missing collection answers 503

func newTestApp(t *testing.T, data upstreamData) (*App, *reportstore.MemoryStore) {
	t.Helper()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := data[strings.TrimPrefix(r.URL.Path, "/api/")]
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(up.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := reportstore.NewMemoryStore()
	app := &App{
		cfg:     Config{StoreDriver: driverMemory, CORSOrigins: []string{"*"}},
		log:     log,
		store:   store,
		source:  upstream.New(upstream.Options{BaseURL: up.URL, Timeout: 5 * time.Second}),
		metrics: newMetrics(),
		now:     func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) },
	}
	return app, store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data"`
}

func storedTypes(t *testing.T, store reportstore.Store) []models.ReportType {
	t.Helper()
	reports, err := store.ListAll(context.Background(), reportstore.MaxLimit)
	require.NoError(t, err)
	out := make([]models.ReportType, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Type)
	}
	return out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app.routes(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	h := decode[healthResp](t, rec)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, driverMemory, h.Database)
}

func TestSpeciesEndpointStoresReport(t *testing.T) {
	app, store := newTestApp(t, upstreamData{"arboles": treesJSON})
	rec := get(t, app.routes(), "/api/analisis/especies")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[envelope[models.SpeciesSummary]](t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Data)
	assert.Equal(t, 3, env.Data.TotalTrees)
	assert.Equal(t, 2, env.Data.UniqueSpecies)
	assert.Equal(t, models.Counts{"Roble": 2, "Pino": 1}, env.Data.Distribution)
	assert.Equal(t, models.RankedCounts{{Value: "Roble", Count: 2}, {Value: "Pino", Count: 1}}, env.Data.Top5)

	reports, err := store.ListByType(context.Background(), models.ReportSpecies, 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.ReportSpecies.Title(), reports[0].Title)
	assert.Equal(t, models.GeneratedBySystem, reports[0].GeneratedBy)
	assert.Nil(t, reports[0].Parameters)
	var stored models.SpeciesSummary
	require.NoError(t, json.Unmarshal(reports[0].Result, &stored))
	assert.Equal(t, *env.Data, stored)
}

func TestAnalysisEndpoints(t *testing.T) {
	app, store := newTestApp(t, upstreamData{
		"arboles":       treesJSON,
		"muestras":      samplesJSON,
		"conglomerados": clustersJSON,
	})
	h := app.routes()

	t.Run("condicion", func(t *testing.T) {
		env := decode[envelope[models.ConditionSummary]](t, get(t, h, "/api/analisis/condicion-arboles"))
		require.NotNil(t, env.Data)
		assert.Equal(t, models.Counts{"Vivo": 2, "Tumbado": 1}, env.Data.ByCondition)
		assert.Equal(t, models.Counts{"Sano": 1}, env.Data.ByHealthStatus)
	})
	t.Run("muestras", func(t *testing.T) {
		env := decode[envelope[models.SampleSummary]](t, get(t, h, "/api/analisis/muestras"))
		require.NotNil(t, env.Data)
		assert.Equal(t, 2, env.Data.TotalSamples)
		assert.Equal(t, models.Counts{"Seca": 1}, env.Data.ByCondition)
	})
	t.Run("dap_altura", func(t *testing.T) {
		env := decode[envelope[models.DimensionSummary]](t, get(t, h, "/api/analisis/dap-altura"))
		require.NotNil(t, env.Data)
		require.NotNil(t, env.Data.DAP)
		assert.InDelta(t, 24.0, env.Data.DAP.Mean, 1e-9)
		assert.Equal(t, models.DAPClasses{Small: 1, Medium: 1, Large: 1}, env.Data.Classes)
	})
	t.Run("resumen_general", func(t *testing.T) {
		env := decode[envelope[models.GeneralSummary]](t, get(t, h, "/api/analisis/resumen-general"))
		require.NotNil(t, env.Data)
		assert.Equal(t, models.SampleOverview{Total: 2, Pending: 1, Processed: 1}, env.Data.Samples)
		assert.Equal(t, models.Counts{"Meta": 1}, env.Data.Clusters.ByDepartment)
	})

	assert.Equal(t, []models.ReportType{
		models.ReportGeneral, models.ReportDimensions, models.ReportSamples, models.ReportCondition,
	}, storedTypes(t, store))
}

func TestAnalysisWithoutDataIsNotStored(t *testing.T) {
	app, store := newTestApp(t, upstreamData{"arboles": `[]`})
	h := app.routes()

	for _, path := range []string{"/api/analisis/especies", "/api/analisis/dap-altura", "/api/analisis/muestras"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String(), path)
	}
	assert.Empty(t, storedTypes(t, store))
}

func TestGeneralSummaryPartialUpstream(t *testing.T) {
	// samples and clusters unavailable
	app, _ := newTestApp(t, upstreamData{"arboles": treesJSON})
	env := decode[envelope[models.GeneralSummary]](t, get(t, app.routes(), "/api/analisis/resumen-general"))
	require.NotNil(t, env.Data)
	assert.Equal(t, 3, env.Data.Trees.Total)
	assert.Equal(t, models.SampleOverview{}, env.Data.Samples)
	assert.Equal(t, 0, env.Data.Clusters.Total)
}

func TestPartialRecordsKeepTotals(t *testing.T) {
	app, _ := newTestApp(t, upstreamData{
		"arboles":       `[{"especie":"Roble","dap":12,"altura":8,"condicion":"Vivo"},{"especie":"Pino","dap":20,"condicion":"Vivo"}]`,
		"conglomerados": `[{"departamento":"Meta"},{"codigo":"CG-2"}]`,
	})
	h := app.routes()

	species := decode[envelope[models.SpeciesSummary]](t, get(t, h, "/api/analisis/especies"))
	require.NotNil(t, species.Data)
	assert.Equal(t, 2, species.Data.TotalTrees)
	assert.Equal(t, models.Counts{"Roble": 1, "Pino": 1}, species.Data.Distribution)

	dims := decode[envelope[models.DimensionSummary]](t, get(t, h, "/api/analisis/dap-altura"))
	require.NotNil(t, dims.Data)
	assert.Equal(t, 2, dims.Data.TotalAnalyzed)
	require.NotNil(t, dims.Data.Height)
	assert.InDelta(t, 8.0, dims.Data.Height.Mean, 1e-9)
	assert.Equal(t, models.DAPClasses{Small: 1, Medium: 1}, dims.Data.Classes)

	general := decode[envelope[models.GeneralSummary]](t, get(t, h, "/api/analisis/resumen-general"))
	require.NotNil(t, general.Data)
	assert.Equal(t, 2, general.Data.Clusters.Total)
	assert.Equal(t, models.Counts{"Meta": 1}, general.Data.Clusters.ByDepartment)
	assert.Equal(t, 2, general.Data.Trees.Total)
}

func TestGeneralSummaryAllEmpty(t *testing.T) {
	app, store := newTestApp(t, upstreamData{"arboles": `[]`, "muestras": `[]`, "conglomerados": `[]`})
	rec := get(t, app.routes(), "/api/analisis/resumen-general")
	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
	assert.Empty(t, storedTypes(t, store))
}

type failingStore struct{ reportstore.MemoryStore }

func (*failingStore) Append(context.Context, reportstore.NewReport) error {
	return reportstore.ErrInsert{ReportType: "x", Err: errors.New("db down")}
}

func (*failingStore) ListAll(context.Context, int) ([]models.Report, error) {
	return nil, reportstore.ErrQuery{Err: errors.New("db down")}
}

func TestStorageFailureIs500(t *testing.T) {
	app, _ := newTestApp(t, upstreamData{"arboles": treesJSON})
	app.store = &failingStore{}
	h := app.routes()

	rec := get(t, h, "/api/analisis/especies")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[errorResp](t, rec).Error, "db down")

	rec = get(t, h, "/api/reportes/historial")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHistory(t *testing.T) {
	app, store := newTestApp(t, nil)
	ctx := context.Background()
	for _, rt := range []models.ReportType{models.ReportSpecies, models.ReportGeneral, models.ReportSpecies} {
		require.NoError(t, store.Append(ctx, reportstore.NewSystemReport(rt, map[string]int{"n": 1})))
	}
	h := app.routes()

	t.Run("all_limited", func(t *testing.T) {
		rec := get(t, h, "/api/reportes/historial?limit=2")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[historyResp](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Total)
		require.Len(t, resp.Reports, 2)
		assert.Equal(t, int64(3), resp.Reports[0].ID)
		assert.Equal(t, int64(2), resp.Reports[1].ID)
	})
	t.Run("by_type", func(t *testing.T) {
		resp := decode[historyResp](t, get(t, h, "/api/reportes/historial?tipo=distribucion_especies"))
		assert.Equal(t, 2, resp.Total)
		for _, r := range resp.Reports {
			assert.Equal(t, models.ReportSpecies, r.Type)
		}
	})
	t.Run("by_type_default_limit", func(t *testing.T) {
		for i := 0; i < 25; i++ {
			require.NoError(t, store.Append(ctx, reportstore.NewSystemReport(models.ReportDimensions, map[string]int{"n": i})))
		}
		resp := decode[historyResp](t, get(t, h, "/api/reportes/historial?tipo=dap_altura"))
		assert.Equal(t, 25, resp.Total)
	})
	t.Run("bad_queries", func(t *testing.T) {
		for _, q := range []string{"limit=abc", "limit=0", "limit=-5", "tipo=dap_altura&limit=0", "tipo=altura"} {
			rec := get(t, h, "/api/reportes/historial?"+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestSpeciesPDF(t *testing.T) {
	app, _ := newTestApp(t, upstreamData{"arboles": treesJSON})
	rec := get(t, app.routes(), "/api/reportes/pdf/especies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="reporte_especies_20261015_093000.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestGeneralPDF(t *testing.T) {
	app, store := newTestApp(t, upstreamData{"muestras": samplesJSON})
	rec := get(t, app.routes(), "/api/reportes/pdf/general")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "resumen_general_20261015_093000.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	// rendering does not write to the report log
	assert.Empty(t, storedTypes(t, store))
}

func TestPDFWithoutDataIs404(t *testing.T) {
	app, _ := newTestApp(t, nil)
	h := app.routes()
	for _, path := range []string{"/api/reportes/pdf/especies", "/api/reportes/pdf/general"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "No hay datos disponibles", decode[errorResp](t, rec).Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestApp(t, upstreamData{"arboles": treesJSON})
	h := app.routes()
	get(t, h, "/api/analisis/especies")
	get(t, h, "/api/analisis/muestras") // muestras unavailable

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `forestreport_reports_generated_total{type="distribucion_especies"} 1`)
	assert.Contains(t, body, `forestreport_upstream_failures_total{collection="muestras"} 1`)
	assert.Contains(t, body, `forestreport_http_request_duration_seconds_count{code="200",route="/api/analisis/especies"} 1`)
}

func TestOpenAPIServed(t *testing.T) {
	app, _ := newTestApp(t, nil)
	rec := get(t, app.routes(), "/api/openapi.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/reportes/historial")
}
