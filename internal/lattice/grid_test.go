package lattice

import "testing"

func TestIndex(t *testing.T) {
	tests := []struct {
		name string
		pos  []int
		size []int
		want int
	}{
		{"origin", []int{0, 0}, []int{4, 3}, 0},
		{"dim0 fastest", []int{1, 0}, []int{4, 3}, 1},
		{"dim1 stride", []int{0, 1}, []int{4, 3}, 4},
		{"mixed", []int{1, 2}, []int{4, 3}, 9},
		{"last", []int{3, 2}, []int{4, 3}, 11},
		{"three dims", []int{1, 2, 3}, []int{2, 3, 4}, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.pos, tt.size); got != tt.want {
				t.Errorf("Index(%v, %v) = %d, want %d", tt.pos, tt.size, got, tt.want)
			}
		})
	}
}

func TestAdvanceFullSweep(t *testing.T) {
	size := []int{2, 3}
	pos := []int{0, 0}
	dims := []bool{true, true}

	seen := map[int]bool{}
	for {
		idx := Index(pos, size)
		if seen[idx] {
			t.Fatalf("position %v visited twice", pos)
		}
		seen[idx] = true
		if !Advance(pos, size, dims) {
			break
		}
	}

	if len(seen) != 6 {
		t.Errorf("visited %d positions, want 6", len(seen))
	}
}

func TestAdvanceSweepOrder(t *testing.T) {
	size := []int{2, 2}
	pos := []int{0, 0}
	dims := []bool{true, true}

	want := [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i := 0; ; i++ {
		if pos[0] != want[i][0] || pos[1] != want[i][1] {
			t.Fatalf("step %d at %v, want %v", i, pos, want[i])
		}
		if !Advance(pos, size, dims) {
			if i != len(want)-1 {
				t.Fatalf("sweep ended after %d steps, want %d", i+1, len(want))
			}
			break
		}
	}
}

func TestAdvanceMaskedDimension(t *testing.T) {
	size := []int{3, 4}
	pos := []int{1, 0}
	dims := []bool{false, true}

	count := 1
	for Advance(pos, size, dims) {
		if pos[0] != 1 {
			t.Fatalf("masked dimension moved: pos = %v", pos)
		}
		count++
	}

	if count != 4 {
		t.Errorf("hyperplane sweep visited %d positions, want 4", count)
	}
}
