package domain

import "time"

// ConfidenceTier is a coarse quality label assigned per source, reflecting
// trust in that provider's data rather than per-result certainty.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// LookupResult represents a successful barcode resolution from exactly one source.
// Immutable once produced; optional fields stay empty when the provider omitted them.
type LookupResult struct {
	Name           string         `json:"name"`
	Brand          string         `json:"brand,omitempty"`
	Category       string         `json:"category,omitempty"`
	Model          string         `json:"model,omitempty"`
	ConfidenceTier ConfidenceTier `json:"confidenceTier"`
	Source         string         `json:"source"` // which provider answered; diagnostics only
}

// CacheEntry is a cached resolution for one normalized identifier.
// Entries are replaced wholesale, never partially updated.
type CacheEntry struct {
	Key      string       `json:"key"`
	Result   LookupResult `json:"result"`
	CachedAt time.Time    `json:"cachedAt"`
}

// ErrorKind is a short code the caller's UI may branch on.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindInvalidIdentifier ErrorKind = "INVALID_BARCODE"
	ErrorKindNotFound          ErrorKind = "BARCODE_NOT_FOUND"
	ErrorKindInvalidImage      ErrorKind = "INVALID_IMAGE"
	ErrorKindImageTooSmall     ErrorKind = "IMAGE_TOO_SMALL"
	ErrorKindLowConfidence     ErrorKind = "LOW_CONFIDENCE"
	ErrorKindNoProduct         ErrorKind = "NO_PRODUCT_DETECTED"
	ErrorKindQuotaExceeded     ErrorKind = "QUOTA_EXCEEDED"
	ErrorKindServerError       ErrorKind = "SERVER_ERROR"
)

// LookupOutcome is the uniform value returned by the lookup service.
// Either Success with a full result, or a failure with an ErrorKind; it never
// carries a partially-filled result.
type LookupOutcome struct {
	Success   bool          `json:"success"`
	Result    *LookupResult `json:"result,omitempty"`
	WasCached bool          `json:"wasCached"`
	ErrorKind ErrorKind     `json:"errorKind,omitempty"`
}

// LookupSuccess builds a successful outcome.
func LookupSuccess(result *LookupResult, wasCached bool) LookupOutcome {
	return LookupOutcome{Success: true, Result: result, WasCached: wasCached}
}

// LookupFailure builds a failed outcome with the given kind.
func LookupFailure(kind ErrorKind) LookupOutcome {
	return LookupOutcome{Success: false, ErrorKind: kind}
}
