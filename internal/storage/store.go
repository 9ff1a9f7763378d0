package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mswell/internal/msw"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type WellSummary struct {
	Name           string  `json:"name"`
	Segments       int     `json:"segments"`
	Iterations     int     `json:"iterations"`
	Residual       float64 `json:"residual"`
	BottomPressure float64 `json:"bottom_pressure"`
	TopRate        float64 `json:"top_rate"`
}

type RunMetadata struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Tolerance float64       `json:"tolerance"`
	Backend   string        `json:"backend"`
	Wells     []WellSummary `json:"wells"`
	Messages  []string      `json:"messages,omitempty"`
}

// SegmentRecord is one row of segments.csv.
type SegmentRecord struct {
	Well     string
	Segment  string
	Pressure float64
	Rate     float64
	Drop     float64
}

var segmentHeader = []string{"well", "segment", "pressure", "rate", "drop"}

// Save writes metadata.json and segments.csv for the results under a new run
// id and returns it. meta.ID, meta.Timestamp and meta.Wells are filled in.
func (s *Store) Save(meta RunMetadata, results []*msw.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Wells = make([]WellSummary, 0, len(results))
	for _, r := range results {
		sum := WellSummary{
			Name:       r.Well,
			Segments:   len(r.Segments),
			Iterations: r.Iterations,
			Residual:   r.Residual,
		}
		if len(r.Pressures) > 0 {
			sum.BottomPressure = r.BottomPressure()
			sum.TopRate = r.Rates[0]
		}
		meta.Wells = append(meta.Wells, sum)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "segments.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(segmentHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		for i := range r.Segments {
			row := []string{
				r.Well,
				r.Segments[i],
				strconv.FormatFloat(r.Pressures[i], 'g', -1, 64),
				strconv.FormatFloat(r.Rates[i], 'g', -1, 64),
				strconv.FormatFloat(r.Drops[i], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of all runs, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSegments reads segments.csv of a run. Malformed rows are skipped.
func (s *Store) LoadSegments(runID string) ([]SegmentRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "segments.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []SegmentRecord{}, nil
	}

	out := make([]SegmentRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(segmentHeader) {
			continue
		}
		var vals [3]float64
		ok := true
		for k := range vals {
			v, err := strconv.ParseFloat(rec[2+k], 64)
			if err != nil {
				ok = false
				break
			}
			vals[k] = v
		}
		if !ok {
			continue
		}
		out = append(out, SegmentRecord{
			Well:     rec[0],
			Segment:  rec[1],
			Pressure: vals[0],
			Rate:     vals[1],
			Drop:     vals[2],
		})
	}
	return out, nil
}

// Profile returns the pressures and rates of one well of a run in segment
// order.
func (s *Store) Profile(runID, well string) (pressures, rates []float64, err error) {
	recs, err := s.LoadSegments(runID)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range recs {
		if r.Well == well {
			pressures = append(pressures, r.Pressure)
			rates = append(rates, r.Rate)
		}
	}
	if len(pressures) == 0 {
		return nil, nil, fmt.Errorf("run %s has no well %q", runID, well)
	}
	return pressures, rates, nil
}
