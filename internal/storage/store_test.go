package storage

import (
	"context"
	"math"
	"testing"

	"github.com/csnje/lbflow/internal/flow"
	"github.com/csnje/lbflow/internal/lattice"
	"github.com/csnje/lbflow/internal/metrics"
)

func runFlow(t *testing.T) (*flow.Result, *lattice.Lattice) {
	t.Helper()
	bounds := [][2]lattice.Scheme{
		{lattice.Periodic, lattice.Periodic},
		{lattice.Periodic, lattice.Periodic},
	}
	l, err := lattice.New(lattice.D2Q9(), []int{6, 5}, bounds, 1.0, []float64{0.1, 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r, err := flow.New(l, 0.7)
	if err != nil {
		t.Fatalf("flow.New: %v", err)
	}
	r.AddMetric(metrics.NewMass())
	r.AddMetric(metrics.NewPeakSpeed())

	result, err := r.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result, l
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result, l := runFlow(t)
	result.Reynolds = 200

	runID, err := store.Save("cylinder", result, l)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Scenario != "cylinder" {
		t.Errorf("Scenario = %q, want cylinder", meta.Scenario)
	}
	if meta.Ticks != 10 {
		t.Errorf("Ticks = %d, want 10", meta.Ticks)
	}
	if meta.Reynolds != 200 {
		t.Errorf("Reynolds = %f, want 200", meta.Reynolds)
	}
	if len(meta.Size) != 2 || meta.Size[0] != 6 {
		t.Errorf("Size = %v, want [6 5]", meta.Size)
	}
	if _, ok := meta.Metrics["mass"]; !ok {
		t.Error("expected mass metric in metadata")
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	result, l := runFlow(t)
	if _, err := store.Save("cylinder", result, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Scenario != "cylinder" {
		t.Errorf("Scenario = %q, want cylinder", runs[0].Scenario)
	}
}

func TestList_MissingDir(t *testing.T) {
	store := New(t.TempDir() + "/absent")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadSeries(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result, l := runFlow(t)
	runID, err := store.Save("cylinder", result, l)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	series, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(series["mass"]) != 10 {
		t.Fatalf("mass series has %d entries, want 10", len(series["mass"]))
	}
	for i, mass := range series["mass"] {
		if math.Abs(mass-30.0) > 1e-6 {
			t.Errorf("mass[%d] = %v, want 30", i, mass)
		}
	}
}

func TestLoadFields(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result, l := runFlow(t)
	runID, err := store.Save("cylinder", result, l)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	header, rows, err := store.LoadFields(runID)
	if err != nil {
		t.Fatalf("LoadFields: %v", err)
	}
	if len(rows) != 6*5 {
		t.Fatalf("expected %d rows, got %d", 6*5, len(rows))
	}
	want := []string{"x0", "x1", "solid", "density", "speed", "vorticity"}
	if len(header) != len(want) {
		t.Fatalf("header = %v, want %v", header, want)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}
	// Dimension 0 varies fastest, so the second row is cell (1, 0).
	if rows[1][0] != 1 || rows[1][1] != 0 {
		t.Errorf("row 1 position = (%v, %v), want (1, 0)", rows[1][0], rows[1][1])
	}
}
