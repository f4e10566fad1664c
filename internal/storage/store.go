// Package storage persists simulation runs to a directory tree of
// metadata.json, series.csv and fields.csv files.
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

	"github.com/csnje/lbflow/internal/flow"
	"github.com/csnje/lbflow/internal/lattice"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Size      []int              `json:"size"`
	Ticks     int                `json:"ticks"`
	Tau       float64            `json:"tau"`
	Reynolds  float64            `json:"reynolds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a completed run under a fresh run directory and returns its ID.
// The lattice provides the final field snapshot; pass nil to skip fields.csv.
func (s *Store) Save(scenario string, result *flow.Result, l *lattice.Lattice) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	var size []int
	if l != nil {
		size = l.Size()
	}
	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Size:      size,
		Ticks:     result.Ticks,
		Tau:       result.Tau,
		Reynolds:  result.Reynolds,
		Metrics:   result.Metrics,
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

	if err := s.saveSeries(runDir, result); err != nil {
		return "", err
	}

	if l != nil {
		if err := s.saveFields(runDir, l); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) saveSeries(runDir string, result *flow.Result) error {
	file, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"tick"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < result.Ticks; i++ {
		row := []string{strconv.Itoa(i + 1)}
		for _, name := range names {
			series := result.Series[name]
			if i < len(series) {
				row = append(row, strconv.FormatFloat(series[i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveFields(runDir string, l *lattice.Lattice) error {
	file, err := os.Create(filepath.Join(runDir, "fields.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	size := l.Size()
	twoD := len(size) == 2

	header := make([]string, 0, len(size)+4)
	for d := range size {
		header = append(header, fmt.Sprintf("x%d", d))
	}
	header = append(header, "solid", "density", "speed")
	if twoD {
		header = append(header, "vorticity")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	pos := make([]int, len(size))
	dims := make([]bool, len(size))
	for d := range dims {
		dims[d] = true
	}
	for {
		row := make([]string, 0, len(header))
		for _, p := range pos {
			row = append(row, strconv.Itoa(p))
		}
		solid := "0"
		if l.Obstacle(pos) {
			solid = "1"
		}
		row = append(row, solid,
			strconv.FormatFloat(l.Density(pos), 'g', -1, 64),
			strconv.FormatFloat(l.Velocity(pos), 'g', -1, 64))
		if twoD {
			row = append(row, strconv.FormatFloat(l.Vorticity(pos), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
		if !lattice.Advance(pos, size, dims) {
			break
		}
	}
	return nil
}

// List returns metadata for every stored run, skipping unreadable entries.
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

// LoadSeries reads the per-tick metric series of a run.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header)-1)
	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}
	return series, nil
}

// LoadFields reads the final field snapshot of a run. It returns the column
// names and one row of values per cell.
func (s *Store) LoadFields(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "fields.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				row = append(row, 0)
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
