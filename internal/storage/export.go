package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/flightdyn/internal/sim"
)

type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Columns  []string    `json:"columns"`
	Rows     [][]float64 `json:"rows"`
}

// ExportJSON writes a whole run, metadata and telemetry, as one document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Metadata: meta,
		Columns:  sim.SampleColumns,
		Rows:     make([][]float64, len(samples)),
	}
	for i, s := range samples {
		data.Rows[i] = s.Values()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
