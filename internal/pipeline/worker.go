package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docstruct/internal/chunker"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/langsvc"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/parser"
	"github.com/dgallion1/docstruct/internal/summarize"
)

// Worker processes a single summarization job.
type Worker struct {
	svc langsvc.Service
	log *slog.Logger
	cfg config.Config
}

func NewWorker(svc langsvc.Service, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{svc: svc, log: log, cfg: cfg}
}

// Process runs the full summarization pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.parse(job)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.Title = doc.Title
	}
	job.ContentHash = ContentHashHex([]byte(strings.Join(doc.Passages, "\n")))

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	window := job.ChunkWindow
	if window <= 0 {
		window = w.cfg.ChunkWindow
	}
	chunks := chunker.Split(doc.Passages, chunker.Config{WindowSize: window})
	tokens := 0
	for _, c := range chunks {
		tokens += chunker.EstimateTokens(c.Text)
	}
	job.SetChunkStats(len(chunks), tokens)
	log.Info("chunked document", "chunks", len(chunks), "estimated_tokens", tokens)

	// Phase 3: Summarize
	job.SetStatus(StatusSummarizing, "summarizing")
	opts := summarize.Options{
		MinFanoutSize: w.cfg.MinFanoutSize,
		MaxDepth:      w.cfg.MaxDepth,
	}
	if job.MinFanoutSize > 0 {
		opts.MinFanoutSize = job.MinFanoutSize
	}
	if job.MaxDepth > 0 {
		opts.MaxDepth = job.MaxDepth
	}

	engine := summarize.NewEngine(&countingService{svc: w.svc, job: job}, opts, log)
	root := outline.Path{job.Title}
	section, err := engine.Summarize(ctx, root, chunks)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("job canceled")
			job.SetStatus(StatusCanceled, "summarizing")
			return
		}
		log.Error("summarize failed", "error", err)
		job.AddError(fmt.Sprintf("summarize: %s", err))
		job.SetStatus(StatusFailed, "summarizing")
		return
	}

	// Phase 4: Render
	job.SetStatus(StatusRendering, "rendering")
	markdown := outline.RenderMarkdown(section, 1)
	job.SetResult(markdown)
	job.SetSectionsWritten(countSections(markdown))

	log.Info("summarization complete",
		"sections", countSections(markdown),
		"service_calls", job.Snapshot().Progress.ServiceCalls,
	)
	job.SetStatus(StatusCompleted, "done")
}

// parse picks the right parser for the job's input. Inline text goes
// through the plain-text parser.
func (w *Worker) parse(job *Job) (*parser.Document, error) {
	if text := job.RawText(); text != "" {
		p := &parser.TextParser{}
		name := job.Filename
		if name == "" {
			name = "input.txt"
		}
		return p.Parse(strings.NewReader(text), name)
	}

	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, err
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}
	return p.Parse(bytes.NewReader(job.FileData()), job.Filename)
}

// countSections counts markdown headings in the rendered document.
func countSections(markdown string) int {
	n := 0
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "#") {
			n++
		}
	}
	return n
}

// countingService ties job progress to language service usage.
type countingService struct {
	svc langsvc.Service
	job *Job
}

func (c *countingService) Gist(ctx context.Context, path outline.Path, chunk string) (string, error) {
	c.job.IncrServiceCalls()
	return c.svc.Gist(ctx, path, chunk)
}

func (c *countingService) ProposeHeaders(ctx context.Context, path outline.Path, gists []string) ([]string, error) {
	c.job.IncrServiceCalls()
	return c.svc.ProposeHeaders(ctx, path, gists)
}

func (c *countingService) Classify(ctx context.Context, path outline.Path, chunk string, labels []string) (string, error) {
	c.job.IncrServiceCalls()
	return c.svc.Classify(ctx, path, chunk, labels)
}

func (c *countingService) WriteSection(ctx context.Context, path outline.Path, chunks []string) (string, error) {
	c.job.IncrServiceCalls()
	return c.svc.WriteSection(ctx, path, chunks)
}
