package linkcom

import (
	"testing"
)

func TestIngest_FirstSeenOrder(t *testing.T) {
	el := Ingest(pairs(7, 9, 3, 7, 9, 12))

	wantIDs := []NodeID{7, 9, 3, 12}
	if el.NumNodes() != len(wantIDs) {
		t.Fatalf("NumNodes() = %d, want %d", el.NumNodes(), len(wantIDs))
	}
	for idx, want := range wantIDs {
		if got := el.NodeID(NodeIndex(idx)); got != want {
			t.Errorf("NodeID(%d) = %d, want %d", idx, got, want)
		}
	}

	wantEdges := []Edge{{0, 1}, {0, 2}, {1, 3}}
	if el.NumEdges() != len(wantEdges) {
		t.Fatalf("NumEdges() = %d, want %d", el.NumEdges(), len(wantEdges))
	}
	for id, want := range wantEdges {
		if got := el.Edge(EdgeID(id)); got != want {
			t.Errorf("Edge(%d) = %+v, want %+v", id, got, want)
		}
	}
}

func TestIngest_DiscardsReverseAndSelfLoops(t *testing.T) {
	el := Ingest(pairs(1, 2, 2, 1, 3, 3, 1, 2, 4, 2))

	if el.NumEdges() != 1 {
		t.Errorf("NumEdges() = %d, want 1", el.NumEdges())
	}
	if el.Discarded() != 3 {
		t.Errorf("Discarded() = %d, want 3", el.Discarded())
	}
	if el.Duplicates() != 1 {
		t.Errorf("Duplicates() = %d, want 1", el.Duplicates())
	}
	// discarded pairs never allocate indices
	if el.NumNodes() != 2 {
		t.Errorf("NumNodes() = %d, want 2", el.NumNodes())
	}
}

func TestIngest_NormalizesOnIndices(t *testing.T) {
	// 5 is seen after 10 and 20, so its index is larger than theirs even
	// though its identifier is smaller.
	el := Ingest(pairs(10, 20, 5, 10))

	if got := el.Edge(1); got != (Edge{I: 0, J: 2}) {
		t.Errorf("Edge(1) = %+v, want {0 2}", got)
	}
	for _, q := range [][2]NodeIndex{{0, 2}, {2, 0}} {
		id, ok := el.Lookup(q[0], q[1])
		if !ok || id != 1 {
			t.Errorf("Lookup(%d,%d) = %d,%v, want 1,true", q[0], q[1], id, ok)
		}
	}
	if _, ok := el.Lookup(1, 2); ok {
		t.Error("Lookup(1,2) found an edge that does not exist")
	}
}

func TestIngest_Empty(t *testing.T) {
	el := Ingest(nil)
	if el.NumNodes() != 0 || el.NumEdges() != 0 {
		t.Errorf("empty ingest: %d nodes, %d edges", el.NumNodes(), el.NumEdges())
	}
}
