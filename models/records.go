package models

// Records as delivered by the inventory API. Every attribute is a pointer:
// nil means the attribute was absent from the upstream record, which is not
// the same as an empty value. A record missing one attribute still counts
// towards every total; it is only left out of that attribute's table.

// Tree is one measured individual (/api/arboles).
type Tree struct {
	Species      *string
	Condition    *string  // Vivo | Muerto en pie | Tumbado | Cepa
	HealthStatus *string
	DAP          *float64 // diameter at breast height, cm
	Height       *float64 // total height, m
}

// Sample is a biological or soil sample (/api/muestras).
type Sample struct {
	Type      *string // Hoja | Corteza | Suelo | Semilla | Fruto
	Status    *string // Pendiente | Procesado | Rechazado
	Condition *string // Fresca | Seca | Preservada
}

// Cluster is a survey sampling unit (/api/conglomerados).
type Cluster struct {
	Department *string
}

// Sample status values counted by the general summary.
const (
	SampleStatusPending   = "Pendiente"
	SampleStatusProcessed = "Procesado"
)
