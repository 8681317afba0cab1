package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docstruct/internal/outline"
)

// Config controls chunking behavior.
type Config struct {
	WindowSize int // Target window size in characters.
	MinChunk   int // Minimum chunk size in characters to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize: 1000,
		MinChunk:   50,
	}
}

// Split windows the document passages into fixed-size chunks, indexed
// in document order. Windows prefer to break at a word boundary near
// the target size rather than mid-word; passages are joined with
// blank lines before windowing so chunk boundaries do not have to
// align with passage boundaries.
func Split(passages []string, cfg Config) []outline.Chunk {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 1000
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 50
	}

	text := joinPassages(passages)
	if text == "" {
		return nil
	}

	var chunks []outline.Chunk
	index := 0
	for len(text) > 0 {
		window := takeWindow(text, cfg.WindowSize)
		text = text[len(window):]
		window = strings.TrimSpace(window)
		if window == "" {
			continue
		}
		if len(window) < cfg.MinChunk && len(chunks) > 0 {
			// Tail fragment: fold into the previous chunk instead of
			// emitting a runt.
			chunks[len(chunks)-1].Text += " " + window
			continue
		}
		chunks = append(chunks, outline.Chunk{Text: window, Index: index})
		index++
	}
	return chunks
}

// takeWindow returns the next window of at most target bytes, backed
// off to the last whitespace so words stay whole. A window with no
// whitespace at all (unsegmented CJK, long identifiers) is cut hard
// near target, backed off to a rune boundary so no chunk carries a
// torn code point.
func takeWindow(text string, target int) string {
	if len(text) <= target {
		return text
	}
	cut := strings.LastIndexAny(text[:target], " \n\t")
	if cut <= 0 {
		cut = target
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = target
		}
		return text[:cut]
	}
	return text[:cut+1]
}

func joinPassages(passages []string) string {
	var parts []string
	for _, p := range passages {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// EstimateTokens gives a rough token count using a words-based
// heuristic. Exact tokenization is not required here; the estimate
// only feeds job statistics.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}
