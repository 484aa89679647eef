package domain

import "context"

// CacheRepository defines the interface for the resolution cache.
// Implementations must be safe for concurrent use; Set is an unconditional
// overwrite, so a race between two misses for the same key is harmless.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
}

// BarcodeSource wraps exactly one external barcode lookup provider.
// Resolve returns the normalized result, ErrNoMatch when the provider has no
// product for the identifier, or an error wrapping ErrProviderTransient for
// timeouts, 5xx responses, and malformed payloads. It never panics outward
// and performs no writes.
type BarcodeSource interface {
	Name() string
	Tier() ConfidenceTier
	Resolve(ctx context.Context, identifier string) (*LookupResult, error)
}

// VisionClient defines the interface for the image-identification provider.
// Describe returns ErrQuotaExceeded when the provider rejects the call for
// quota reasons and an error wrapping ErrVisionFailure otherwise.
type VisionClient interface {
	Describe(ctx context.Context, image string) (*VisionObservation, error)
}

// AnalyticsSink records identification attempts. Callers treat it as
// fire-and-forget; a sink error must never fail the primary response.
type AnalyticsSink interface {
	Record(ctx context.Context, record *IdentificationRecord) error
}
