package domain

import "errors"

var (
	// ErrInvalidIdentifier is returned when a barcode fails normalization or length validation
	ErrInvalidIdentifier = errors.New("invalid product identifier")

	// ErrNoMatch is returned when no source has a product for the identifier.
	// This is an expected outcome, not a defect; callers fall back to manual entry.
	ErrNoMatch = errors.New("no match for identifier")

	// ErrProviderTransient is returned when a source fails for transient reasons (timeout, 5xx, bad payload)
	ErrProviderTransient = errors.New("provider transient failure")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidImage is returned when the identification input is not a usable image reference
	ErrInvalidImage = errors.New("invalid image input")

	// ErrImageTooSmall is returned when the image payload is below the plausible minimum size
	ErrImageTooSmall = errors.New("image payload too small")

	// ErrLowConfidence is returned when the vision model's confidence is below the threshold
	ErrLowConfidence = errors.New("identification confidence below threshold")

	// ErrNoProductDetected is returned when the vision model sees no product in the image
	ErrNoProductDetected = errors.New("no product detected in image")

	// ErrQuotaExceeded is returned when the vision provider rejects the call for quota reasons
	ErrQuotaExceeded = errors.New("vision provider quota exceeded")

	// ErrVisionFailure is returned when the vision provider request fails
	ErrVisionFailure = errors.New("vision provider request failed")
)
