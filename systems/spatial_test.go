package systems

import (
	"testing"

	"menagerie/world"
)

func TestGridInsertAndQuery(t *testing.T) {
	g := NewGrid(100, 10)

	if got := g.CellSize(); got != 10 {
		t.Fatalf("CellSize() = %v, want 10", got)
	}

	// Three agents in the same cell keep insertion order.
	g.Insert(3, 55, 55)
	g.Insert(1, 56, 56)
	g.Insert(2, 57, 57)

	got := g.AppendNeighborhood(nil, 55, 55)
	want := []uint32{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("neighborhood = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighborhood[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGridNeighborhoodSpansAdjacentCells(t *testing.T) {
	g := NewGrid(100, 10)

	g.Insert(1, 55, 55) // cell (5,5)
	g.Insert(2, 45, 55) // cell (4,5)
	g.Insert(3, 65, 65) // cell (6,6)
	g.Insert(4, 75, 55) // cell (7,5), outside the 3x3 block around (5,5)

	got := g.AppendNeighborhood(nil, 55, 55)
	if len(got) != 3 {
		t.Fatalf("neighborhood = %v, want 3 agents", got)
	}
	for _, id := range got {
		if id == 4 {
			t.Errorf("agent 4 at cell (7,5) should not be in the neighborhood of (5,5)")
		}
	}
}

func TestGridClear(t *testing.T) {
	g := NewGrid(100, 10)
	g.Insert(1, 55, 55)
	g.Clear()

	if got := g.AppendNeighborhood(nil, 55, 55); len(got) != 0 {
		t.Errorf("neighborhood after Clear = %v, want empty", got)
	}
}

func TestGridHighEdgeWrapsToCellZero(t *testing.T) {
	g := NewGrid(100, 10)

	// Agent in cell (0,0). A query from the far corner reaches offset cell
	// 100, which wraps to 0.
	g.Insert(1, 1, 1)

	got := g.AppendNeighborhood(nil, 999, 999)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("neighborhood of far corner = %v, want [1]: high edge wraps to cell 0", got)
	}
}

func TestGridLowEdgeDoesNotWrap(t *testing.T) {
	g := NewGrid(100, 10)

	// Agent in cell (99,99). A query from the near corner reaches offset
	// cell -1, which is skipped, not wrapped.
	g.Insert(1, 999, 999)

	if got := g.AppendNeighborhood(nil, 1, 1); len(got) != 0 {
		t.Errorf("neighborhood of near corner = %v, want empty: low edge does not wrap", got)
	}
}

func TestGridInsertAtFarEdgeWraps(t *testing.T) {
	g := NewGrid(100, 10)

	// x = 1000 is cell 100, which wraps to 0 on insert.
	g.Insert(1, 1000, 1000)

	got := g.AppendNeighborhood(nil, 1, 1)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("agent at the far edge should land in cell (0,0), got %v", got)
	}
}

func TestGridRebuildSkipsDead(t *testing.T) {
	s := world.NewStore()
	a := s.AddAgent()
	b := s.AddAgent()

	s.Pos(a).X, s.Pos(a).Y = 55, 55
	s.Pos(b).X, s.Pos(b).Y = 56, 56
	s.HP(b).Alive = false

	g := NewGrid(100, 10)
	g.Rebuild(s)

	got := g.AppendNeighborhood(nil, 55, 55)
	if len(got) != 1 || got[0] != a {
		t.Errorf("neighborhood = %v, want only live agent %d", got, a)
	}

	// Rebuild replaces, not accumulates.
	g.Rebuild(s)
	if got := g.AppendNeighborhood(nil, 55, 55); len(got) != 1 {
		t.Errorf("neighborhood after second Rebuild = %v, want 1 agent", got)
	}
}
