package models

import (
	"encoding/json"
	"time"
)

// ReportType tags which aggregation produced a stored report.
type ReportType string

const (
	ReportSpecies    ReportType = "distribucion_especies"
	ReportCondition  ReportType = "condicion_arboles"
	ReportSamples    ReportType = "analisis_muestras"
	ReportDimensions ReportType = "dap_altura"
	ReportGeneral    ReportType = "resumen_general"
)

// GeneratedBySystem is the actor recorded for reports produced by the API.
const GeneratedBySystem = "sistema"

var reportLabels = map[ReportType][2]string{
	ReportSpecies: {
		"Análisis de Distribución de Especies",
		"Análisis estadístico de la distribución de especies forestales",
	},
	ReportCondition: {
		"Análisis de Condición de Árboles",
		"Distribución de árboles por condición y estado sanitario",
	},
	ReportSamples: {
		"Análisis de Muestras",
		"Distribución de muestras por tipo, estado y condición",
	},
	ReportDimensions: {
		"Análisis de DAP y Altura",
		"Estadísticas de diámetro a la altura del pecho y altura total",
	},
	ReportGeneral: {
		"Resumen General del Inventario",
		"Vista general de todos los datos del inventario forestal",
	},
}

// Title returns the human label stored with reports of this type.
func (t ReportType) Title() string { return reportLabels[t][0] }

// Description returns the long label stored with reports of this type.
func (t ReportType) Description() string { return reportLabels[t][1] }

// Known reports whether t is one of the aggregations this service produces.
func (t ReportType) Known() bool {
	_, ok := reportLabels[t]
	return ok
}

// Report is one immutable entry of the report log.
// Parameters and Result hold serialized JSON; nil means the value was stored as NULL.
type Report struct {
	ID          int64           `json:"id"`
	Type        ReportType      `json:"tipo_reporte"`
	Title       string          `json:"titulo"`
	Description string          `json:"descripcion"`
	Parameters  json.RawMessage `json:"parametros"`
	Result      json.RawMessage `json:"resultado"`
	GeneratedBy string          `json:"generado_por"`
	CreatedAt   Timestamp       `json:"created_at"`
}

// TimestampLayout is how report creation times are rendered to clients.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp marshals as "YYYY-MM-DD HH:MM:SS" (UTC).
type Timestamp time.Time

func (t Timestamp) Time() time.Time { return time.Time(t) }

func (t Timestamp) String() string { return time.Time(t).UTC().Format(TimestampLayout) }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}
