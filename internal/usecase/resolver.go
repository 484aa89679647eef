package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/warrantyhub/backend/internal/domain"
)

// AttemptStatus records why a source did or did not contribute a result.
type AttemptStatus string

const (
	AttemptMatched   AttemptStatus = "matched"
	AttemptNoMatch   AttemptStatus = "no_match"
	AttemptTransient AttemptStatus = "transient_failure"
)

// Attempt is one source's contribution to a resolution, kept for diagnostics.
// A transient provider failure counts as no match for orchestration purposes
// but stays distinguishable here.
type Attempt struct {
	Source string        `json:"source"`
	Status AttemptStatus `json:"status"`
}

// FallbackResolver tries barcode sources in fixed priority order,
// best-quality-first, and stops at the first source that answers.
type FallbackResolver struct {
	sources []domain.BarcodeSource
}

// NewFallbackResolver creates a resolver over the given sources. Order is the
// priority order; it is fixed configuration, not discovered at runtime.
func NewFallbackResolver(sources ...domain.BarcodeSource) *FallbackResolver {
	return &FallbackResolver{sources: sources}
}

// Resolve queries sources in priority order and returns the first result.
// First-found wins: once a source answers, lower-priority sources are not
// queried even if one might be higher quality. When every source returns no
// match or fails transiently, Resolve returns domain.ErrNoMatch — an expected
// outcome, not an error condition. The attempt trace is returned in all cases.
func (r *FallbackResolver) Resolve(ctx context.Context, identifier string) (*domain.LookupResult, []Attempt, error) {
	attempts := make([]Attempt, 0, len(r.sources))

	for _, source := range r.sources {
		// Caller gone: do not start further provider calls
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		result, err := source.Resolve(ctx, identifier)
		if err == nil {
			attempts = append(attempts, Attempt{Source: source.Name(), Status: AttemptMatched})
			return result, attempts, nil
		}

		if errors.Is(err, domain.ErrNoMatch) {
			attempts = append(attempts, Attempt{Source: source.Name(), Status: AttemptNoMatch})
			continue
		}

		// Transient failures are absorbed: one flaky provider must not
		// abort the chain
		log.Printf("[RESOLVE] Source %s failed for %q: %v", source.Name(), identifier, err)
		attempts = append(attempts, Attempt{Source: source.Name(), Status: AttemptTransient})
	}

	return nil, attempts, domain.ErrNoMatch
}
