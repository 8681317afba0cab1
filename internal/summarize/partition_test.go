package summarize

import (
	"testing"
)

func chunkTexts(g Group) []string {
	out := make([]string, len(g.Chunks))
	for i, c := range g.Chunks {
		out[i] = c.Text
	}
	return out
}

func TestPartition_LabelOrderAndChunkOrder(t *testing.T) {
	chunks := makeChunks("c1", "c2", "c3", "c4")
	labels := []string{"B", "A"}
	assigned := []string{"A", "B", "A", "B"}

	groups := Partition(chunks, labels, assigned)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "B" || groups[1].Label != "A" {
		t.Errorf("groups must follow proposal order, got %q then %q", groups[0].Label, groups[1].Label)
	}
	if got := chunkTexts(groups[0]); len(got) != 2 || got[0] != "c2" || got[1] != "c4" {
		t.Errorf("group B chunks out of order: %v", got)
	}
	if got := chunkTexts(groups[1]); len(got) != 2 || got[0] != "c1" || got[1] != "c3" {
		t.Errorf("group A chunks out of order: %v", got)
	}
}

func TestPartition_EmptyGroupsRetained(t *testing.T) {
	chunks := makeChunks("c1")
	groups := Partition(chunks, []string{"A", "B", "C"}, []string{"B"})
	if len(groups) != 3 {
		t.Fatalf("expected all proposed labels as groups, got %d", len(groups))
	}
	if len(groups[0].Chunks) != 0 || len(groups[2].Chunks) != 0 {
		t.Error("unassigned labels must yield empty groups, not be dropped")
	}
}

func TestPartition_UnknownLabelFallsBack(t *testing.T) {
	chunks := makeChunks("c1", "c2", "c3")
	groups := Partition(chunks, []string{"A"}, []string{"A", "Nope", ""})

	last := groups[len(groups)-1]
	if last.Label != UnclassifiedLabel {
		t.Fatalf("expected fallback group last, got %q", last.Label)
	}
	if got := chunkTexts(last); len(got) != 2 || got[0] != "c2" || got[1] != "c3" {
		t.Errorf("fallback group chunks wrong: %v", got)
	}
}

func TestPartition_MissingAssignmentsFallBack(t *testing.T) {
	chunks := makeChunks("c1", "c2")
	groups := Partition(chunks, []string{"A"}, []string{"A"}) // assigned shorter than chunks
	last := groups[len(groups)-1]
	if last.Label != UnclassifiedLabel || len(last.Chunks) != 1 {
		t.Fatalf("chunk without assignment must land in fallback, got %+v", groups)
	}
}

func TestPartition_NoFallbackGroupWhenAllClassified(t *testing.T) {
	chunks := makeChunks("c1", "c2")
	groups := Partition(chunks, []string{"A"}, []string{"A", "A"})
	for _, g := range groups {
		if g.Label == UnclassifiedLabel {
			t.Error("empty fallback group must be omitted")
		}
	}
}

func TestPartition_DuplicateLabelsCollapse(t *testing.T) {
	chunks := makeChunks("c1", "c2")
	groups := Partition(chunks, []string{"A", "A"}, []string{"A", "A"})
	if len(groups) != 1 {
		t.Fatalf("duplicate labels must collapse to one group, got %d", len(groups))
	}
	if len(groups[0].Chunks) != 2 {
		t.Errorf("collapsed group must hold all chunks, got %d", len(groups[0].Chunks))
	}
}

func TestPartition_EveryChunkExactlyOnce(t *testing.T) {
	chunks := makeChunks("c1", "c2", "c3", "c4", "c5")
	labels := []string{"A", "B"}
	assigned := []string{"A", "Z", "B", "", "A"}

	groups := Partition(chunks, labels, assigned)
	seen := make(map[int]int)
	for _, g := range groups {
		for _, c := range g.Chunks {
			seen[c.Index]++
		}
	}
	if len(seen) != len(chunks) {
		t.Fatalf("expected %d distinct chunks across groups, got %d", len(chunks), len(seen))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("chunk %d appears %d times", idx, n)
		}
	}
}

func TestPartition_NoChunks(t *testing.T) {
	groups := Partition(nil, []string{"A"}, nil)
	if len(groups) != 1 || len(groups[0].Chunks) != 0 {
		t.Fatalf("expected one empty group, got %+v", groups)
	}
}
