package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Counts is a frequency table value -> occurrences.
type Counts map[string]int

// Total sums every occurrence in the table.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// RankedCount is one row of an ordered frequency table.
type RankedCount struct {
	Value string
	Count int
}

// RankedCounts is a frequency table that keeps its row order.
// It is encoded as a JSON object whose keys follow the slice order.
type RankedCounts []RankedCount

func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rc.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", rc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *RankedCounts) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ranked counts: expected object, got %v", tok)
	}
	out := RankedCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranked counts: unexpected key %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("ranked counts: value for %q: %w", key, err)
		}
		out = append(out, RankedCount{Value: key, Count: n})
	}
	*r = out
	return nil
}

// SpeciesSummary is the distribucion_especies report result.
type SpeciesSummary struct {
	TotalTrees    int          `json:"total_arboles"`
	UniqueSpecies int          `json:"especies_unicas"`
	Distribution  Counts       `json:"distribucion_completa"`
	Top5          RankedCounts `json:"top_5_especies"`
}

// ConditionSummary is the condicion_arboles report result.
type ConditionSummary struct {
	Total          int    `json:"total"`
	ByCondition    Counts `json:"por_condicion"`
	ByHealthStatus Counts `json:"por_estado_sanitario"`
}

// SampleSummary is the analisis_muestras report result.
type SampleSummary struct {
	TotalSamples int    `json:"total_muestras"`
	ByType       Counts `json:"por_tipo"`
	ByStatus     Counts `json:"por_estado"`
	ByCondition  Counts `json:"por_condicion"`
}

// Stats are the descriptive statistics of one measurement.
// Deviation is the population standard deviation.
type Stats struct {
	Mean      float64 `json:"promedio"`
	Median    float64 `json:"mediana"`
	Min       float64 `json:"minimo"`
	Max       float64 `json:"maximo"`
	Deviation float64 `json:"desviacion_std"`
}

// DAPClasses counts trees per diameter class.
type DAPClasses struct {
	Small     int `json:"pequeño (<15cm)"`
	Medium    int `json:"mediano (15-30cm)"`
	Large     int `json:"grande (30-60cm)"`
	VeryLarge int `json:"muy_grande (>=60cm)"`
}

// Sum is the number of classified trees.
func (c DAPClasses) Sum() int { return c.Small + c.Medium + c.Large + c.VeryLarge }

// DimensionSummary is the dap_altura report result. DAP or Height is nil
// when no tree carries that measurement. Trees without a DAP are not
// classified, so Classes.Sum() may be below TotalAnalyzed.
type DimensionSummary struct {
	DAP           *Stats     `json:"dap"`
	Height        *Stats     `json:"altura"`
	Classes       DAPClasses `json:"clasificacion_dap"`
	TotalAnalyzed int        `json:"total_analizado"`
}

// GeneralSummary is the resumen_general report result.
type GeneralSummary struct {
	Clusters ClusterOverview `json:"conglomerados"`
	Trees    TreeOverview    `json:"arboles"`
	Samples  SampleOverview  `json:"muestras"`
}

type ClusterOverview struct {
	Total        int    `json:"total"`
	ByDepartment Counts `json:"por_departamento"`
}

type TreeOverview struct {
	Total         int `json:"total"`
	UniqueSpecies int `json:"especies_unicas"`
}

type SampleOverview struct {
	Total     int `json:"total"`
	Pending   int `json:"pendientes"`
	Processed int `json:"procesadas"`
}
