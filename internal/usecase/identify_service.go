package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warrantyhub/backend/internal/domain"
)

// MinIdentifyConfidence is the acceptance threshold for vision results,
// inclusive: a score of exactly 0.70 is accepted. It controls the
// precision/recall tradeoff and is deliberately a visible policy constant.
const MinIdentifyConfidence = 0.7

// minImagePayloadBytes is the smallest decoded payload worth sending to the
// paid inference endpoint.
const minImagePayloadBytes = 1024

// recordTimeout bounds the fire-and-forget analytics write.
const recordTimeout = 5 * time.Second

// IdentifyServiceConfig holds configuration for the identification service.
type IdentifyServiceConfig struct {
	MinConfidence float64
	MinImageBytes int
	Now           func() time.Time
}

// IdentifyService identifies a product from an image via the vision provider,
// enriches accepted results with a warranty suggestion, and records every
// attempt to the analytics sink.
type IdentifyService struct {
	vision        domain.VisionClient
	sink          domain.AnalyticsSink
	minConfidence float64
	minImageBytes int
	now           func() time.Time
}

// NewIdentifyService creates a new identification service with dependencies.
func NewIdentifyService(
	vision domain.VisionClient,
	sink domain.AnalyticsSink,
	config IdentifyServiceConfig,
) *IdentifyService {
	minConfidence := config.MinConfidence
	if minConfidence == 0 {
		minConfidence = MinIdentifyConfidence
	}

	minImageBytes := config.MinImageBytes
	if minImageBytes == 0 {
		minImageBytes = minImagePayloadBytes
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &IdentifyService{
		vision:        vision,
		sink:          sink,
		minConfidence: minConfidence,
		minImageBytes: minImageBytes,
		now:           now,
	}
}

// Identify runs the vision identification flow for one image.
// Input is validated before any external call so garbage never reaches the
// paid endpoint. Results below the confidence threshold are failures, not
// low-quality successes.
func (s *IdentifyService) Identify(ctx context.Context, image, requesterID string) domain.IdentificationOutcome {
	if err := validateImageInput(image, s.minImageBytes); err != nil {
		outcome := domain.IdentifyFailure(imageErrorKind(err))
		s.recordAttempt(requesterID, outcome)
		return outcome
	}

	observation, err := s.vision.Describe(ctx, image)
	if err != nil {
		outcome := s.describeFailure(err)
		s.recordAttempt(requesterID, outcome)
		return outcome
	}

	if observation.Name == "" {
		outcome := domain.IdentifyFailure(domain.ErrorKindNoProduct)
		s.recordAttempt(requesterID, outcome)
		return outcome
	}

	if observation.Confidence < s.minConfidence {
		log.Printf("[IDENTIFY] Rejected %q at confidence %.2f (threshold %.2f)",
			observation.Name, observation.Confidence, s.minConfidence)
		outcome := domain.IdentifyFailure(domain.ErrorKindLowConfidence)
		s.recordAttempt(requesterID, outcome)
		return outcome
	}

	result := &domain.IdentificationResult{
		Name:              observation.Name,
		Brand:             observation.Brand,
		Category:          observation.Category,
		Model:             observation.Model,
		Color:             observation.Color,
		EstimatedYear:     observation.EstimatedYear,
		ConfidenceScore:   observation.Confidence,
		SuggestedWarranty: SuggestWarranty(observation.Brand, observation.Category),
	}

	outcome := domain.IdentifySuccess(result)
	s.recordAttempt(requesterID, outcome)
	return outcome
}

// describeFailure maps a vision-provider error onto an outcome. Quota
// rejections stay distinct so the caller can say "try again later" instead of
// pushing the user to manual entry.
func (s *IdentifyService) describeFailure(err error) domain.IdentificationOutcome {
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return domain.IdentifyFailure(domain.ErrorKindQuotaExceeded)
	}
	log.Printf("[IDENTIFY] Vision request failed: %v", err)
	return domain.IdentifyFailure(domain.ErrorKindServerError)
}

// recordAttempt ships one analytics record asynchronously. The write must
// never block or fail the primary response; sink errors are logged and
// swallowed.
func (s *IdentifyService) recordAttempt(requesterID string, outcome domain.IdentificationOutcome) {
	record := &domain.IdentificationRecord{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		Success:     outcome.Success,
		ErrorKind:   outcome.ErrorKind,
		RecordedAt:  s.now(),
	}
	if outcome.Result != nil {
		record.Confidence = outcome.Result.ConfidenceScore
		record.ProductName = outcome.Result.Name
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.sink.Record(ctx, record); err != nil {
			log.Printf("[IDENTIFY] Analytics record failed: %v", err)
		}
	}()
}

// validateImageInput accepts a well-formed http(s) URL, a base64 data URI, or
// a raw base64 payload of at least minBytes decoded bytes.
func validateImageInput(image string, minBytes int) error {
	image = strings.TrimSpace(image)
	if image == "" {
		return domain.ErrInvalidImage
	}

	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		parsed, err := url.Parse(image)
		if err != nil || parsed.Host == "" {
			return domain.ErrInvalidImage
		}
		return nil
	}

	payload := image
	if strings.HasPrefix(image, "data:") {
		if !strings.HasPrefix(image, "data:image/") {
			return domain.ErrInvalidImage
		}
		idx := strings.Index(image, ";base64,")
		if idx < 0 {
			return domain.ErrInvalidImage
		}
		payload = image[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.ErrInvalidImage
	}
	if len(decoded) < minBytes {
		return domain.ErrImageTooSmall
	}

	return nil
}

// imageErrorKind maps a validation error onto its specific kind.
func imageErrorKind(err error) domain.ErrorKind {
	if errors.Is(err, domain.ErrImageTooSmall) {
		return domain.ErrorKindImageTooSmall
	}
	return domain.ErrorKindInvalidImage
}
