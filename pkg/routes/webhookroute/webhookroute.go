// Package webhookroute exposes the CMS webhook endpoint.
package webhookroute

import (
	"io"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/webhook"
)

// Handler receives CMS change deliveries.
type Handler struct {
	dispatcher *webhook.Dispatcher
	secret     string
	logger     ectologger.Logger
}

func NewHandler(dispatcher *webhook.Dispatcher, secret string, logger ectologger.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		secret:     secret,
		logger:     logger,
	}
}

// RegisterRoutes registers the webhook endpoint
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/cms", h.Receive)
}

type receiveResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Result  *webhook.Outcome `json:"result,omitempty"`
}

// Receive handles one delivery. The signature covers the raw body, so
// the body is read before any JSON handling.
func (h *Handler) Receive(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, receiveResponse{Success: false, Error: "Invalid webhook payload"})
	}

	signature := c.Request().Header.Get(webhook.SignatureHeader)
	if !webhook.ValidateSignature(body, h.secret, signature) {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"remote_ip": c.RealIP(),
		}).Warn("Rejected webhook with invalid signature")
		return c.JSON(http.StatusUnauthorized, receiveResponse{Success: false, Error: "Invalid signature"})
	}

	event, err := models.ParseWebhookEvent(body)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Rejected malformed webhook payload")
		return c.JSON(http.StatusBadRequest, receiveResponse{Success: false, Error: "Invalid webhook payload"})
	}

	outcome, err := h.dispatcher.Dispatch(ctx, event)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"sanity_id":     event.ID,
			"document_type": event.Type,
		}).Error("Webhook processing failed")

		code := http.StatusInternalServerError
		if httperror.IsHTTPError(err) {
			code = httperror.GetStatusCode(err)
		}
		return c.JSON(code, receiveResponse{Success: false, Error: err.Error()})
	}

	return c.JSON(http.StatusOK, receiveResponse{Success: true, Result: outcome})
}
