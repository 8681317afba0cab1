package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docstruct/internal/chunker"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/langsvc"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/parser"
	"github.com/dgallion1/docstruct/internal/summarize"
)

// One-shot mode: read a document, run the recursive summarizer, write
// markdown. Intended for local use; the server is the long-running
// surface.
func main() {
	inPath := flag.String("in", "", "input document (txt, md, html, csv, pdf, docx)")
	outPath := flag.String("out", "", "output markdown file (default stdout)")
	root := flag.String("root", "", "root heading (default: document title)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: docstruct -in doc.pdf [-out summary.md] [-root \"Doc\"]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	stats := langsvc.NewCallStats(time.Hour)
	svc, closeSvc, err := langsvc.Build(ctx, cfg, stats)
	if err != nil {
		log.Error("failed to build language service", "error", err)
		os.Exit(1)
	}
	defer closeSvc()

	p, err := parser.ForFile(*inPath)
	if err != nil {
		log.Error("unsupported input", "error", err)
		os.Exit(1)
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = cfg.PDFFallbackPdftotext
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Error("open input", "error", err)
		os.Exit(1)
	}
	doc, err := p.Parse(f, *inPath)
	f.Close()
	if err != nil {
		log.Error("parse input", "error", err)
		os.Exit(1)
	}

	heading := *root
	if heading == "" {
		heading = doc.Title
	}

	chunks := chunker.Split(doc.Passages, chunker.Config{WindowSize: cfg.ChunkWindow})
	log.Info("summarizing", "chunks", len(chunks), "root", heading, "backend", cfg.ServiceBackend)

	engine := summarize.NewEngine(svc, summarize.Options{
		MinFanoutSize: cfg.MinFanoutSize,
		MaxDepth:      cfg.MaxDepth,
	}, log)

	section, err := engine.Summarize(ctx, outline.Path{heading}, chunks)
	if err != nil {
		log.Error("summarize failed", "error", err)
		os.Exit(1)
	}

	markdown := outline.RenderMarkdown(section, 1)
	if *outPath == "" {
		fmt.Print(markdown)
		return
	}
	if err := os.WriteFile(*outPath, []byte(markdown), 0o644); err != nil {
		log.Error("write output", "error", err)
		os.Exit(1)
	}
	log.Info("wrote summary", "path", *outPath, "service_calls", stats.Snapshot().Count)
}
