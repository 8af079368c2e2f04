// Package payment implements the payment-sheet endpoint used by checkout.
package payment

import (
	"errors"
	"net/http"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	provider Provider
}

func NewHandler(provider Provider) *Handler {
	return &Handler{
		provider: provider,
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/payment-sheet", h.CreatePaymentSheet)
}

// CreatePaymentSheet answers 400 for a malformed body, 503 when the
// provider is unreachable and 500 for any other failure.
func (h *Handler) CreatePaymentSheet(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	amount, currency, err := req.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sheet, err := h.provider.CreateSheet(c.Request.Context(), amount, currency)
	if err != nil {
		log.Error().Err(err).Str("amount", FormatAmount(amount)).Str("currency", currency).Msg("failed to create payment sheet")
		c.JSON(statusOf(err), gin.H{"error": messageOf(err)})
		return
	}

	log.Info().Str("amount", FormatAmount(amount)).Str("currency", currency).Str("customerId", sheet.CustomerID).Msg("payment sheet created")
	c.JSON(http.StatusOK, sheet)
}

func statusOf(err error) int {
	switch {
	case ierr.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error) string {
	switch statusOf(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusServiceUnavailable:
		return ErrProviderUnavailable.Error()
	default:
		return "failed to create payment sheet"
	}
}
