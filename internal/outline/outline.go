package outline

import (
	"fmt"
	"strings"
)

// NoContent is the sentinel body used when a subtree produced nothing.
const NoContent = "No content generated for this section."

// Path is the ordered heading trail from the document root to the
// current node. It grows by exactly one element per descent.
type Path []string

// Child returns a copy of the path with label appended. The receiver
// is never aliased, so a parent's path is safe to share across
// concurrent children.
func (p Path) Child(label string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = label
	return out
}

// Last returns the heading of the current node.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String renders the trail for prompts and logs, e.g. "Doc > Greek".
func (p Path) String() string {
	return strings.Join(p, " > ")
}

// Chunk is an opaque unit of source text. Index is the chunk's
// position in the original input sequence; it is carried through
// partitioning unchanged.
type Chunk struct {
	Text  string
	Index int
}

// Section is a heading paired with body text. The body of an inner
// section already contains its children rendered at their own depth.
type Section struct {
	Heading string
	Body    string
}

// IsSentinel reports whether the section carries the no-content marker.
func (s Section) IsSentinel() bool {
	return s.Body == NoContent
}

// RenderHeading produces a markdown heading at the given level (1-based).
// Levels beyond h6 are clamped, matching common markdown renderers.
func RenderHeading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("%s %s", strings.Repeat("#", level), text)
}

// RenderMarkdown renders a section as a markdown fragment with its
// heading at the given level. Bodies already hold deeper headings.
func RenderMarkdown(s Section, level int) string {
	var sb strings.Builder
	sb.WriteString(RenderHeading(level, s.Heading))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimRight(s.Body, "\n"))
	sb.WriteString("\n")
	return sb.String()
}
