package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mswell/internal/msw"
)

type ExportData struct {
	Method  string        `json:"method"`
	Backend string        `json:"backend"`
	Wells   []*msw.Result `json:"wells"`
}

// ExportJSON writes the results as indented JSON to w.
func ExportJSON(w io.Writer, method, backend string, results []*msw.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Method: method, Backend: backend, Wells: results})
}

// ExportJSONFile writes the results to path.
func ExportJSONFile(path, method, backend string, results []*msw.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, method, backend, results)
}
