package summarize

import (
	"github.com/dgallion1/docstruct/internal/outline"
)

// UnclassifiedLabel is the reserved fallback group for chunks whose
// classification did not name a proposed label.
const UnclassifiedLabel = "Unclassified"

// Group is the ordered sequence of chunks classified under one label.
type Group struct {
	Label  string
	Chunks []outline.Chunk
}

// Partition groups chunks by their assigned labels. assigned[i] is
// the classification result for chunks[i]; a missing or unknown
// assignment lands the chunk in the reserved fallback group rather
// than being dropped.
//
// Guarantees: every input chunk appears in exactly one group; every
// proposed label is present as a group, empty or not, in proposal
// order; chunk order within a group is input order. The fallback
// group, when non-empty, comes last.
func Partition(chunks []outline.Chunk, labels []string, assigned []string) []Group {
	groups := make([]Group, 0, len(labels)+1)
	idx := make(map[string]int, len(labels))
	for _, l := range labels {
		if _, ok := idx[l]; ok {
			continue
		}
		idx[l] = len(groups)
		groups = append(groups, Group{Label: l})
	}

	fallback := Group{Label: UnclassifiedLabel}
	for i, c := range chunks {
		var label string
		if i < len(assigned) {
			label = assigned[i]
		}
		if j, ok := idx[label]; ok {
			groups[j].Chunks = append(groups[j].Chunks, c)
		} else {
			fallback.Chunks = append(fallback.Chunks, c)
		}
	}

	if len(fallback.Chunks) > 0 {
		groups = append(groups, fallback)
	}
	return groups
}
