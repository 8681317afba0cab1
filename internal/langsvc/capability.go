package langsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/docstruct/internal/outline"
)

// promptService lifts a plain text Generator into the Service
// capability interface: it builds the prompt for each operation and
// parses the response back into the operation's result shape.
type promptService struct {
	gen Generator
}

// FromGenerator wraps a text-generation backend as a Service.
func FromGenerator(gen Generator) Service {
	return &promptService{gen: gen}
}

func (s *promptService) Gist(ctx context.Context, path outline.Path, chunk string) (string, error) {
	resp, err := s.gen.Generate(ctx, BuildGistPrompt(path, chunk))
	if err != nil {
		return "", err
	}
	gist := strings.TrimSpace(stripCodeBlock(resp))
	if gist == "" {
		return "", fmt.Errorf("empty gist for %s", path)
	}
	return gist, nil
}

func (s *promptService) ProposeHeaders(ctx context.Context, path outline.Path, gists []string) ([]string, error) {
	resp, err := s.gen.Generate(ctx, BuildHeadersPrompt(path, gists))
	if err != nil {
		return nil, err
	}
	return ParseLabels(resp)
}

func (s *promptService) Classify(ctx context.Context, path outline.Path, chunk string, labels []string) (string, error) {
	resp, err := s.gen.Generate(ctx, BuildClassifyPrompt(path, chunk, labels))
	if err != nil {
		return "", err
	}
	label := ParseLabel(resp)
	if label == "" {
		return "", fmt.Errorf("empty classification for %s", path)
	}
	return label, nil
}

func (s *promptService) WriteSection(ctx context.Context, path outline.Path, chunks []string) (string, error) {
	resp, err := s.gen.Generate(ctx, BuildSectionPrompt(path, chunks))
	if err != nil {
		return "", err
	}
	// An empty body is legal here; the engine substitutes the
	// no-content sentinel.
	return strings.TrimSpace(stripCodeBlock(resp)), nil
}
