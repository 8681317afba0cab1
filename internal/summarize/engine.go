package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgallion1/docstruct/internal/langsvc"
	"github.com/dgallion1/docstruct/internal/outline"
)

// Options configures the recursion-control policy.
type Options struct {
	// MinFanoutSize forces the base case below this chunk count.
	MinFanoutSize int
	// MaxDepth forces the base case at or beyond this path length.
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{
		MinFanoutSize: 5,
		MaxDepth:      3,
	}
}

// Engine recursively structures a chunk sequence into an ordered,
// nested section tree. It is pure with respect to its inputs; its
// only side effects are Language Service calls. Retry, timeout, and
// concurrency capping belong to the service the engine is given
// (see langsvc.WithRetry and langsvc.WithLimit), not to the engine.
type Engine struct {
	svc  langsvc.Service
	opts Options
	log  *slog.Logger
}

func NewEngine(svc langsvc.Service, opts Options, log *slog.Logger) *Engine {
	if opts.MinFanoutSize <= 0 {
		opts.MinFanoutSize = 5
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{svc: svc, opts: opts, log: log}
}

// Summarize produces the section for one hierarchy node. path must be
// non-empty; chunks may be empty. The returned error is non-nil only
// for caller cancellation or a bad path — partial failures deep in
// the tree surface as sentinel text in the corresponding sections.
func (e *Engine) Summarize(ctx context.Context, path outline.Path, chunks []outline.Chunk) (outline.Section, error) {
	if len(path) == 0 {
		return outline.Section{}, fmt.Errorf("empty path")
	}
	if err := ctx.Err(); err != nil {
		return outline.Section{}, err
	}

	if len(chunks) == 0 {
		return outline.Section{Heading: path.Last(), Body: outline.NoContent}, nil
	}
	if len(chunks) < e.opts.MinFanoutSize || len(path) >= e.opts.MaxDepth {
		return e.writeSection(ctx, path, chunks)
	}

	return e.expand(ctx, path, chunks)
}

// expand runs the recursive case: gist fan-out, header proposal,
// classify fan-out, partition, parallel recursion, merge.
func (e *Engine) expand(ctx context.Context, path outline.Path, chunks []outline.Chunk) (outline.Section, error) {
	gists := e.gatherGists(ctx, path, chunks)
	if err := ctx.Err(); err != nil {
		return outline.Section{}, err
	}

	labels, err := e.svc.ProposeHeaders(ctx, path, compactGists(gists))
	if err != nil {
		if ctx.Err() != nil {
			return outline.Section{}, ctx.Err()
		}
		// Header proposal failed for the whole node; writing the
		// section directly is the smallest-scope recovery.
		e.log.Warn("header proposal failed, falling back to direct write",
			"path", path.String(), "error", err)
		return e.writeSection(ctx, path, chunks)
	}
	if len(labels) == 0 {
		// A legitimate empty proposal: the node does not split.
		return e.writeSection(ctx, path, chunks)
	}

	assigned := e.classifyAll(ctx, path, chunks, labels)
	if err := ctx.Err(); err != nil {
		return outline.Section{}, err
	}

	groups := Partition(chunks, labels, assigned)

	// Recurse per non-empty group in parallel. Results are joined
	// positionally so child order stays label order regardless of
	// completion order.
	var nonEmpty []Group
	for _, g := range groups {
		if len(g.Chunks) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	children := make([]outline.Section, len(nonEmpty))
	errs := make([]error, len(nonEmpty))
	var wg sync.WaitGroup
	for i, g := range nonEmpty {
		wg.Add(1)
		go func(i int, g Group) {
			defer wg.Done()
			children[i], errs[i] = e.Summarize(ctx, path.Child(g.Label), g.Chunks)
		}(i, g)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return outline.Section{}, ctx.Err()
		}
		// A failed subtree degrades to its own sentinel; siblings
		// are unaffected.
		e.log.Warn("subtree failed", "path", path.Child(nonEmpty[i].Label).String(), "error", err)
		children[i] = outline.Section{Heading: nonEmpty[i].Label, Body: outline.NoContent}
	}

	return Merge(path, children), nil
}

// gatherGists fans gist calls out over all chunks and joins them in
// chunk order. A failed gist leaves an empty slot: the chunk is still
// classified later, it just does not contribute to header proposal.
// Goroutine count here is per-node; actual in-flight service calls
// are bounded by the shared limiter inside the service.
func (e *Engine) gatherGists(ctx context.Context, path outline.Path, chunks []outline.Chunk) []string {
	gists := make([]string, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			gist, err := e.svc.Gist(ctx, path, text)
			if err != nil {
				if ctx.Err() == nil {
					e.log.Warn("gist failed", "path", path.String(), "chunk", i, "error", err)
				}
				return
			}
			gists[i] = gist
		}(i, c.Text)
	}
	wg.Wait()
	return gists
}

// classifyAll fans classification out over all chunks. assigned[i]
// belongs to chunks[i]; a failed classification leaves an empty slot,
// which the partitioner routes to the reserved fallback group.
func (e *Engine) classifyAll(ctx context.Context, path outline.Path, chunks []outline.Chunk, labels []string) []string {
	assigned := make([]string, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			label, err := e.svc.Classify(ctx, path, text, labels)
			if err != nil {
				if ctx.Err() == nil {
					e.log.Warn("classify failed", "path", path.String(), "chunk", i, "error", err)
				}
				return
			}
			assigned[i] = label
		}(i, c.Text)
	}
	wg.Wait()
	return assigned
}

// writeSection handles the base case: the node's chunks become one
// section body with no further expansion.
func (e *Engine) writeSection(ctx context.Context, path outline.Path, chunks []outline.Chunk) (outline.Section, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	body, err := e.svc.WriteSection(ctx, path, texts)
	if err != nil {
		if ctx.Err() != nil {
			return outline.Section{}, ctx.Err()
		}
		e.log.Warn("section write failed", "path", path.String(), "error", err)
		body = ""
	}
	if strings.TrimSpace(body) == "" {
		body = outline.NoContent
	}
	return outline.Section{Heading: path.Last(), Body: body}, nil
}

// compactGists drops empty slots left by failed gist calls while
// preserving chunk order among the survivors.
func compactGists(gists []string) []string {
	out := make([]string, 0, len(gists))
	for _, g := range gists {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}
