package langsvc

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type limitGenerator struct {
	gen Generator
	sem *semaphore.Weighted
}

// WithLimit caps the number of in-flight backend calls. One weighted
// semaphore is shared by every caller of the returned Generator, so
// the cap holds across all recursion levels of the engine no matter
// how wide or deep the tree grows.
func WithLimit(gen Generator, n int64) Generator {
	if n <= 0 {
		return gen
	}
	return &limitGenerator{gen: gen, sem: semaphore.NewWeighted(n)}
}

func (l *limitGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.gen.Generate(ctx, prompt)
}

func (l *limitGenerator) Close() {
	l.gen.Close()
}
