package langsvc

import (
	"strings"
	"testing"

	"github.com/dgallion1/docstruct/internal/outline"
)

func TestParseLabels_JSONArray(t *testing.T) {
	labels, err := ParseLabels(`["Alpha", "Beta", "Gamma"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Alpha", "Beta", "Gamma"}
	if len(labels) != len(want) {
		t.Fatalf("got %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestParseLabels_FencedJSON(t *testing.T) {
	labels, err := ParseLabels("```json\n[\"One\", \"Two\"]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 2 || labels[0] != "One" || labels[1] != "Two" {
		t.Errorf("got %v", labels)
	}
}

func TestParseLabels_EmptyArray(t *testing.T) {
	labels, err := ParseLabels("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("expected empty set, got %v", labels)
	}
}

func TestParseLabels_BulletFallback(t *testing.T) {
	labels, err := ParseLabels("- First Topic\n* Second Topic\n3. Third Topic\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"First Topic", "Second Topic", "Third Topic"}
	if len(labels) != len(want) {
		t.Fatalf("got %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestParseLabels_DedupesAndDropsBlanks(t *testing.T) {
	labels, err := ParseLabels(`["A", "", "A", "  ", "B"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 2 || labels[0] != "A" || labels[1] != "B" {
		t.Errorf("got %v", labels)
	}
}

func TestParseLabels_MalformedJSON(t *testing.T) {
	if _, err := ParseLabels(`["unterminated`); err == nil {
		t.Fatal("expected error for malformed json array")
	}
}

func TestParseLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Greek History", "Greek History"},
		{`"Quoted Label"`, "Quoted Label"},
		{"First Line\nsecond line", "First Line"},
		{"```\nFenced Label\n```", "Fenced Label"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := ParseLabel(tc.in); got != tc.want {
			t.Errorf("ParseLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildPrompts_IncludePathContext(t *testing.T) {
	path := outline.Path{"Doc", "Greek"}

	gist := BuildGistPrompt(path, "chunk text")
	if !strings.Contains(gist, "Report section: Doc > Greek") {
		t.Error("gist prompt missing path context")
	}
	if !strings.Contains(gist, "chunk text") {
		t.Error("gist prompt missing chunk")
	}

	headers := BuildHeadersPrompt(path, []string{"g1", "g2"})
	if !strings.Contains(headers, "1. g1\n") || !strings.Contains(headers, "2. g2\n") {
		t.Error("headers prompt must number gists in order")
	}

	classify := BuildClassifyPrompt(path, "chunk text", []string{"A", "B"})
	if !strings.Contains(classify, "- A\n- B\n") {
		t.Error("classify prompt must list candidate headers")
	}

	section := BuildSectionPrompt(path, []string{"c1", "c2"})
	if !strings.Contains(section, "c1\n\nc2") {
		t.Error("section prompt must join chunks in order")
	}
}

func TestBuildGistPrompt_RootHasNoPathLine(t *testing.T) {
	got := BuildGistPrompt(nil, "chunk")
	if strings.Contains(got, "Report section:") {
		t.Error("empty path must not produce a context line")
	}
}

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"```\nwrapped\n```", "wrapped"},
		{"```markdown\nbody\n```", "body"},
		{"before ```not a wrapper``` after", "before ```not a wrapper``` after"},
	}
	for _, tc := range cases {
		if got := stripCodeBlock(tc.in); got != tc.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
