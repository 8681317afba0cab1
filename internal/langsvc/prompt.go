package langsvc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/docstruct/internal/outline"
)

const GistPrompt = `Write a one-sentence gist of the following text chunk. The gist is used to group chunks by topic, so name the chunk's subject matter concretely.

Rules:
- One sentence, max 30 words
- State what the chunk is about, not what it says about it
- No preamble, no quotes around the answer

Respond with ONLY the gist sentence.`

const HeadersPrompt = `Propose section headers for organizing the chunks described by the gists below into a structured report.

Rules:
- Each header is a short topic phrase (2-6 words)
- Headers must be distinct and non-overlapping
- Order headers the way sections should appear in the report
- Propose between 2 and 6 headers; fewer gists warrant fewer headers
- Return an empty array [] if the gists do not split into topics

Respond with ONLY a JSON array of header strings, no other text.`

const ClassifyPrompt = `Assign the following text chunk to exactly one of the candidate section headers.

Rules:
- Answer with one header, copied verbatim from the candidate list
- Pick the single best fit; do not invent a new header
- No explanation, no punctuation around the answer

Respond with ONLY the chosen header.`

const SectionPrompt = `Write the body of a report section from the source chunks below.

Rules:
- Synthesize the chunks into flowing prose; do not enumerate them
- Keep every concrete fact; drop repetition
- Do not write a heading, the section already has one
- Plain markdown body text only`

// BuildGistPrompt creates the gist prompt for one chunk, including
// the heading trail as generation context.
func BuildGistPrompt(path outline.Path, chunk string) string {
	var sb strings.Builder
	sb.WriteString(GistPrompt)
	sb.WriteString("\n\n---\n")
	writePathContext(&sb, path)
	sb.WriteString("---\n")
	sb.WriteString(chunk)
	return sb.String()
}

// BuildHeadersPrompt creates the header-proposal prompt from the
// gists collected at one node, in chunk order.
func BuildHeadersPrompt(path outline.Path, gists []string) string {
	var sb strings.Builder
	sb.WriteString(HeadersPrompt)
	sb.WriteString("\n\n---\n")
	writePathContext(&sb, path)
	sb.WriteString("---\n")
	for i, g := range gists {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, g))
	}
	return sb.String()
}

// BuildClassifyPrompt creates the classification prompt for one chunk
// against the proposed header set.
func BuildClassifyPrompt(path outline.Path, chunk string, labels []string) string {
	var sb strings.Builder
	sb.WriteString(ClassifyPrompt)
	sb.WriteString("\n\n---\n")
	writePathContext(&sb, path)
	sb.WriteString("Candidate headers:\n")
	for _, l := range labels {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(chunk)
	return sb.String()
}

// BuildSectionPrompt creates the section-writing prompt for a base
// case node. Chunks are included in input order.
func BuildSectionPrompt(path outline.Path, chunks []string) string {
	var sb strings.Builder
	sb.WriteString(SectionPrompt)
	sb.WriteString("\n\n---\n")
	writePathContext(&sb, path)
	sb.WriteString("---\n")
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c)
	}
	return sb.String()
}

func writePathContext(sb *strings.Builder, path outline.Path) {
	if len(path) == 0 {
		return
	}
	sb.WriteString("Report section: ")
	sb.WriteString(path.String())
	sb.WriteString("\n")
}

// ParseLabels parses a header-proposal response. JSON arrays are the
// contract; bullet or numbered lines are accepted as a fallback so a
// slightly off-script model does not cost a whole subtree.
func ParseLabels(raw string) ([]string, error) {
	text := stripCodeBlock(raw)
	if strings.HasPrefix(strings.TrimSpace(text), "[") {
		var labels []string
		if err := json.Unmarshal([]byte(text), &labels); err != nil {
			return nil, fmt.Errorf("parse headers json: %w (raw: %s)", err, truncate(text, 200))
		}
		return cleanLabels(labels), nil
	}
	var labels []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. \t")
		if line != "" {
			labels = append(labels, line)
		}
	}
	return cleanLabels(labels), nil
}

// ParseLabel extracts the single label from a classification response.
func ParseLabel(raw string) string {
	text := stripCodeBlock(raw)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	return text
}

// cleanLabels drops blanks and duplicates, keeping first occurrence
// order. ProposeHeaders promises distinct non-empty labels; this
// enforces it against non-conforming backends.
func cleanLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
