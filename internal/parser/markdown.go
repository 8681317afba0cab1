package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Each top-level
// block becomes a passage; headings are kept as passages of their own
// so no source text is lost.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	out := &Document{Title: titleFromFilename(filename)}
	sawTitle := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title == "" {
				continue
			}
			// The first h1 becomes the document title.
			if !sawTitle && node.Level == 1 {
				out.Title = title
				sawTitle = true
				continue
			}
			out.Passages = append(out.Passages, title)
		default:
			if t := extractText(n, src); t != "" {
				out.Passages = append(out.Passages, t)
			}
		}
	}

	return out, nil
}

// extractText gets the text content of a goldmark AST node. Blocks
// that carry source lines (paragraphs, code blocks) read them
// directly; container blocks (lists, quotes) recurse into children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
