package summarize

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/outline"
)

// Merge assembles ordered child sections into the section for path.
// Children are rendered in the order supplied (label order), each as
// a heading one level below the parent followed by its body, joined
// with blank lines. Sentinel children are suppressed when at least
// one sibling produced content; if every child is a sentinel the
// parent itself becomes a single sentinel, so sentinel text never
// nests as depth grows.
func Merge(path outline.Path, children []outline.Section) outline.Section {
	var parts []string
	for _, child := range children {
		if child.IsSentinel() {
			continue
		}
		parts = append(parts, strings.TrimRight(outline.RenderMarkdown(child, len(path)+1), "\n"))
	}

	if len(parts) == 0 {
		return outline.Section{Heading: path.Last(), Body: outline.NoContent}
	}
	return outline.Section{Heading: path.Last(), Body: strings.Join(parts, "\n\n")}
}
