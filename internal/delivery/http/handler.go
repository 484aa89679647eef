package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warrantyhub/backend/internal/domain"
	"github.com/warrantyhub/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookupService   *usecase.LookupService
	identifyService *usecase.IdentifyService
}

// NewHandler creates a new HTTP handler
func NewHandler(lookupService *usecase.LookupService, identifyService *usecase.IdentifyService) *Handler {
	return &Handler{
		lookupService:   lookupService,
		identifyService: identifyService,
	}
}

// barcodeRequest is the barcode lookup request body
type barcodeRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// identifyRequest is the image identification request body
type identifyRequest struct {
	Image  string `json:"image" binding:"required"`
	UserID string `json:"userId"`
}

// errorBody is the error half of the response envelope
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMessages are the user-facing messages per error code. Not-found and
// low-confidence outcomes steer the user to manual entry; quota steers to a
// later retry instead.
var errorMessages = map[domain.ErrorKind]string{
	domain.ErrorKindInvalidIdentifier: "That barcode doesn't look valid. Check the number and try again.",
	domain.ErrorKindNotFound:          "We couldn't find this product. Please enter the details manually.",
	domain.ErrorKindInvalidImage:      "The image couldn't be read. Upload a photo or a direct image link.",
	domain.ErrorKindImageTooSmall:     "The image is too small to analyze. Please upload a larger photo.",
	domain.ErrorKindLowConfidence:     "We couldn't identify this product with confidence. Try photographing it more clearly, or enter the details manually.",
	domain.ErrorKindNoProduct:         "No product was detected in the image. Try photographing it more clearly, or enter the details manually.",
	domain.ErrorKindQuotaExceeded:     "Image identification is temporarily unavailable. Please try again in a few minutes.",
	domain.ErrorKindServerError:       "Something went wrong on our side. Please try again.",
}

// errorStatus maps error codes onto HTTP statuses
var errorStatus = map[domain.ErrorKind]int{
	domain.ErrorKindInvalidIdentifier: http.StatusBadRequest,
	domain.ErrorKindNotFound:          http.StatusNotFound,
	domain.ErrorKindInvalidImage:      http.StatusBadRequest,
	domain.ErrorKindImageTooSmall:     http.StatusBadRequest,
	domain.ErrorKindLowConfidence:     http.StatusUnprocessableEntity,
	domain.ErrorKindNoProduct:         http.StatusUnprocessableEntity,
	domain.ErrorKindQuotaExceeded:     http.StatusTooManyRequests,
	domain.ErrorKindServerError:       http.StatusInternalServerError,
}

// respondError writes the failure envelope for an error kind
func respondError(c *gin.Context, kind domain.ErrorKind) {
	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
		kind = domain.ErrorKindServerError
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": errorBody{
			Code:    string(kind),
			Message: errorMessages[kind],
		},
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "warrantyhub-backend",
		"version": "1.0.0",
	})
}

// LookupBarcode handles barcode product lookup requests
func (h *Handler) LookupBarcode(c *gin.Context) {
	var req barcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrorKindInvalidIdentifier)
		return
	}

	outcome := h.lookupService.Lookup(c.Request.Context(), req.Barcode)
	if !outcome.Success {
		respondError(c, outcome.ErrorKind)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"product":   outcome.Result,
		"wasCached": outcome.WasCached,
	})
}

// IdentifyProduct handles AI image identification requests
func (h *Handler) IdentifyProduct(c *gin.Context) {
	var req identifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrorKindInvalidImage)
		return
	}

	outcome := h.identifyService.Identify(c.Request.Context(), req.Image, req.UserID)
	if !outcome.Success {
		respondError(c, outcome.ErrorKind)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": outcome.Result,
	})
}
