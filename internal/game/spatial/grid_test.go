package spatial

import (
	"math"
	"sort"
	"testing"
)

func sorted(ids []uint32) []uint32 {
	out := append([]uint32(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TestGridDimensions tests cell layout
func TestGridDimensions(t *testing.T) {
	g := NewGrid(100, 50, 10, 16)
	cols, rows, size := g.Dimensions()
	if cols != 10 || rows != 5 || size != 10 {
		t.Errorf("Expected 10x5 cells of 10, got %dx%d of %v", cols, rows, size)
	}

	tiny := NewGrid(0, 0, 10, 0)
	cols, rows, _ = tiny.Dimensions()
	if cols != 1 || rows != 1 {
		t.Errorf("Degenerate world should still have one cell, got %dx%d", cols, rows)
	}
}

// TestQueryRadius tests neighbor candidates
func TestQueryRadius(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	g.Insert(0, 5, 5)
	g.Insert(1, 15, 5)
	g.Insert(2, 95, 95)

	got := sorted(g.QueryRadius(5, 5, 12))
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Expected [0 1], got %v", got)
	}
}

// TestInsertBoundsDeduplicates tests entities spanning several cells
func TestInsertBoundsDeduplicates(t *testing.T) {
	g := NewGrid(100, 100, 10, 4)
	g.InsertBounds(3, 0, 0, 35, 35) // 16 cells

	got := g.QueryRadius(15, 15, 30)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("Expected the entity once, got %v", got)
	}
	if g.Stats().TotalEntries != 16 {
		t.Errorf("Expected 16 cell entries, got %d", g.Stats().TotalEntries)
	}
}

// TestQueryRay tests cell traversal along a ray
func TestQueryRay(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	g.Insert(0, 55, 5)  // on the +X ray
	g.Insert(1, 5, 55)  // on the +Z ray
	g.Insert(2, 95, 5)  // beyond range on +X
	g.Insert(3, 45, 45) // on the diagonal

	tests := []struct {
		name    string
		dx, dz  float64
		maxDist float64
		want    []uint32
	}{
		{"along +X", 1, 0, 60, []uint32{0}},
		{"along +Z", 0, 1, 60, []uint32{1}},
		{"diagonal", math.Sqrt2 / 2, math.Sqrt2 / 2, 70, []uint32{3}},
		{"straight up", 0, 0, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorted(g.QueryRay(5, 5, tt.dx, tt.dz, tt.maxDist))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

// TestClearKeepsCapacity tests reuse across ticks
func TestClearKeepsCapacity(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	for i := uint32(0); i < 10; i++ {
		g.Insert(i, float64(i)*10+1, 1)
	}
	g.Clear()
	if g.Stats().TotalEntries != 0 {
		t.Errorf("Expected empty grid after Clear, got %d entries", g.Stats().TotalEntries)
	}
	if len(g.QueryRadius(50, 50, 100)) != 0 {
		t.Error("Query after Clear should be empty")
	}
}
