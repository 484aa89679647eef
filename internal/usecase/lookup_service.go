package usecase

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/warrantyhub/backend/internal/domain"
)

// Identifier length bounds: EAN-8 through GTIN-14.
const (
	minIdentifierLength = 8
	maxIdentifierLength = 14
)

// DefaultCacheTTL is how long a cached resolution stays fresh.
const DefaultCacheTTL = 720 * time.Hour // 30 days

// separatorRegex strips the separators scanners and humans insert into codes
var separatorRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// digitsOnlyRegex validates the normalized identifier family
var digitsOnlyRegex = regexp.MustCompile(`^[0-9]+$`)

// LookupServiceConfig holds configuration for the lookup service.
type LookupServiceConfig struct {
	CacheTTL time.Duration
	Now      func() time.Time // injectable clock; defaults to time.Now
}

// LookupService resolves product barcodes through the cache and the fallback
// resolver, returning a uniform outcome to its caller.
type LookupService struct {
	cache    domain.CacheRepository
	resolver *FallbackResolver
	cacheTTL time.Duration
	now      func() time.Time
}

// NewLookupService creates a new lookup service with dependencies.
func NewLookupService(
	cache domain.CacheRepository,
	resolver *FallbackResolver,
	config LookupServiceConfig,
) *LookupService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &LookupService{
		cache:    cache,
		resolver: resolver,
		cacheTTL: cacheTTL,
		now:      now,
	}
}

// NormalizeIdentifier strips separators from a raw product code and validates
// it against the accepted identifier family. Two raw inputs that normalize
// identically share one cache entry.
func NormalizeIdentifier(raw string) (string, error) {
	normalized := separatorRegex.ReplaceAllString(raw, "")

	if !digitsOnlyRegex.MatchString(normalized) {
		return "", domain.ErrInvalidIdentifier
	}
	if len(normalized) < minIdentifierLength || len(normalized) > maxIdentifierLength {
		return "", domain.ErrInvalidIdentifier
	}

	return normalized, nil
}

// Lookup resolves a raw product code.
// Flow: normalize -> check cache -> resolve via sources -> cache -> return.
// All failures are converted to the outcome envelope here; nothing below this
// boundary reaches the caller as an error.
func (s *LookupService) Lookup(ctx context.Context, rawIdentifier string) domain.LookupOutcome {
	identifier, err := NormalizeIdentifier(rawIdentifier)
	if err != nil {
		// Fail fast: no cache or network call for a malformed code
		return domain.LookupFailure(domain.ErrorKindInvalidIdentifier)
	}

	// Try cache first; a fresh hit costs no outbound call
	entry, err := s.cache.Get(ctx, identifier)
	if err == nil && s.isFresh(entry) {
		result := entry.Result
		return domain.LookupSuccess(&result, true)
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		// Cache trouble degrades to a miss, never to a failed lookup
		log.Printf("[LOOKUP] Cache read failed for %q: %v", identifier, err)
	}

	result, attempts, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			// Expected terminal outcome; the caller offers manual entry.
			// Universal transient failure collapses here too.
			log.Printf("[LOOKUP] No source resolved %q (attempts: %v)", identifier, attempts)
			return domain.LookupFailure(domain.ErrorKindNotFound)
		}
		log.Printf("[LOOKUP] Resolution aborted for %q: %v", identifier, err)
		return domain.LookupFailure(domain.ErrorKindServerError)
	}

	// Overwrite wholesale; a stale entry for this key is replaced
	newEntry := &domain.CacheEntry{
		Key:      identifier,
		Result:   *result,
		CachedAt: s.now(),
	}
	if err := s.cache.Set(ctx, identifier, newEntry); err != nil {
		// A failed cache write costs a future re-resolution, nothing more
		log.Printf("[LOOKUP] Cache write failed for %q: %v", identifier, err)
	}

	return domain.LookupSuccess(result, false)
}

// isFresh reports whether a cache entry is within the TTL. Stale entries are
// treated identically to absent ones; eviction is housekeeping elsewhere.
func (s *LookupService) isFresh(entry *domain.CacheEntry) bool {
	return s.now().Sub(entry.CachedAt) < s.cacheTTL
}
