package langsvc

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/outline"
)

// Service is the capability interface consumed by the summarization
// engine. Any backing implementation is substitutable: a model API,
// a rule engine, or a deterministic stub in tests.
//
// Contracts the engine relies on:
//   - Gist returns a non-empty string or an error.
//   - ProposeHeaders returns an ordered set of distinct, non-empty
//     labels; the empty set is a legitimate result.
//   - Classify returns exactly one label; any string is accepted
//     (the partitioner defends against unknown labels).
//   - WriteSection may return an empty body (the engine maps it to
//     the no-content sentinel).
type Service interface {
	Gist(ctx context.Context, path outline.Path, chunk string) (string, error)
	ProposeHeaders(ctx context.Context, path outline.Path, gists []string) ([]string, error)
	Classify(ctx context.Context, path outline.Path, chunk string, labels []string) (string, error)
	WriteSection(ctx context.Context, path outline.Path, chunks []string) (string, error)
}

// Generator is a plain text-generation backend. All shipped backends
// implement it; FromGenerator lifts one into a full Service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json|markdown|md)?\\s*(.*?)\\s*```$")

// stripCodeBlock unwraps a fenced code block if the model wrapped its
// whole answer in one.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
