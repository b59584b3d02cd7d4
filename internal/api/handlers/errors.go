package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserHeader carries the name recorded on manual stock adjustments.
const UserHeader = "X-User-Name"

// respondError maps service errors onto HTTP status codes. The error field
// carries the matched sentinel text; details carries the full chain.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	for _, m := range statusBySentinel {
		if errors.Is(err, m.sentinel) {
			status = m.status
			message = m.sentinel.Error()
			break
		}
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

var statusBySentinel = []struct {
	sentinel error
	status   int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrNoRecipients, http.StatusBadRequest},
	{domain.ErrProFeatureRequired, http.StatusPaymentRequired},
	{domain.ErrInvalidTransition, http.StatusConflict},
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
