package main

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openapiYAML []byte

// routes wires middlewares and endpoints.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", a.metrics.handler())

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(openapiYAML)
	})
	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Route("/analisis", func(ar chi.Router) {
			ar.Get("/especies", a.handleSpecies)
			ar.Get("/condicion-arboles", a.handleTreeCondition)
			ar.Get("/muestras", a.handleSamples)
			ar.Get("/dap-altura", a.handleDimensions)
			ar.Get("/resumen-general", a.handleGeneral)
		})
		api.Route("/reportes", func(rr chi.Router) {
			rr.Get("/historial", a.handleHistory)
			rr.Get("/pdf/especies", a.handleSpeciesPDF)
			rr.Get("/pdf/general", a.handleGeneralPDF)
		})
	})

	return r
}
