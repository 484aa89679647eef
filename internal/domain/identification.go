package domain

import "time"

// VisionObservation is the normalized response from the vision provider:
// a structured product description plus a confidence score in [0,1].
type VisionObservation struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand,omitempty"`
	Category      string  `json:"category,omitempty"`
	Model         string  `json:"model,omitempty"`
	Color         string  `json:"color,omitempty"`
	EstimatedYear int     `json:"estimatedYear,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// IdentificationResult is a vision-based product identification enriched with
// a warranty-period suggestion. Produced per request; never cached or reused.
type IdentificationResult struct {
	Name              string  `json:"name"`
	Brand             string  `json:"brand,omitempty"`
	Category          string  `json:"category,omitempty"`
	Model             string  `json:"model,omitempty"`
	Color             string  `json:"color,omitempty"`
	EstimatedYear     int     `json:"estimatedYear,omitempty"`
	ConfidenceScore   float64 `json:"confidenceScore"`
	SuggestedWarranty string  `json:"suggestedWarranty"`
}

// IdentificationOutcome is the uniform value returned by the identification service.
type IdentificationOutcome struct {
	Success   bool                  `json:"success"`
	Result    *IdentificationResult `json:"result,omitempty"`
	ErrorKind ErrorKind             `json:"errorKind,omitempty"`
}

// IdentifySuccess builds a successful identification outcome.
func IdentifySuccess(result *IdentificationResult) IdentificationOutcome {
	return IdentificationOutcome{Success: true, Result: result}
}

// IdentifyFailure builds a failed identification outcome with the given kind.
func IdentifyFailure(kind ErrorKind) IdentificationOutcome {
	return IdentificationOutcome{Success: false, ErrorKind: kind}
}

// IdentificationRecord is the analytics payload written per identification
// attempt. Fire-and-forget: the core never reads these back.
type IdentificationRecord struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	Success     bool      `json:"success"`
	ErrorKind   ErrorKind `json:"errorKind,omitempty"`
	Confidence  float64   `json:"confidence,omitempty"`
	ProductName string    `json:"productName,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}
