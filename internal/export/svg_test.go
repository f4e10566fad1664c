package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{1, 2, 3, 2, 1}, 400, 200, "#00ccff", "mass")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, ">mass</text>") {
		t.Error("missing caption")
	}
	if !strings.Contains(svg, `stroke="#00ccff"`) {
		t.Error("missing stroke colour")
	}
	if strings.Count(svg, " L") != 4 {
		t.Errorf("expected 4 line segments, got %d", strings.Count(svg, " L"))
	}
}

func TestSeriesToSVG_TooShort(t *testing.T) {
	if svg := SeriesToSVG([]float64{1}, 400, 200, "#00ccff", "mass"); svg != "" {
		t.Error("expected empty string for single-point series")
	}
}

func TestSeriesToSVG_FlatSeries(t *testing.T) {
	svg := SeriesToSVG([]float64{5, 5, 5}, 400, 200, "#00ccff", "mass")
	if svg == "" {
		t.Error("flat series should still render")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("flat series produced NaN coordinates")
	}
}

func TestWriteSeriesSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mass.svg")
	if err := WriteSeriesSVG(path, []float64{1, 2, 1}, 400, 200, "mass"); err != nil {
		t.Fatalf("WriteSeriesSVG: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "</svg>") {
		t.Error("file is not a complete SVG document")
	}

	if err := WriteSeriesSVG(path, []float64{1}, 400, 200, "mass"); err == nil {
		t.Error("expected error for single-point series")
	}
}
