// Package admin exposes operator endpoints: batch imports into the CMS
// and the webhook delivery log.
package admin

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/seatonfc/contentbridge/internal/repositories/webhooklog"
	"github.com/seatonfc/contentbridge/pkg/importer"
)

// Handler serves the admin API.
type Handler struct {
	importer *importer.Importer
	logs     *webhooklog.Repository
	logger   ectologger.Logger
}

func NewHandler(imp *importer.Importer, logs *webhooklog.Repository, logger ectologger.Logger) *Handler {
	return &Handler{
		importer: imp,
		logs:     logs,
		logger:   logger,
	}
}

// RegisterRoutes registers admin endpoints
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/import/players", h.ImportPlayers)
	g.POST("/import/sponsors", h.ImportSponsors)
	g.GET("/webhooks/logs", h.WebhookLogs)
}

// ImportRequest tunes one import run. All fields are optional; the
// importer applies its defaults for anything left unset.
type ImportRequest struct {
	BatchSize int  `json:"batch_size" query:"batch_size"`
	DryRun    bool `json:"dry_run" query:"dry_run"`
}

func importOptions(c echo.Context) (*importer.Options, error) {
	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid import request")
	}
	return &importer.Options{
		BatchSize: req.BatchSize,
		DryRun:    req.DryRun,
	}, nil
}

// ImportPlayers runs a squad import into the CMS and returns the
// per-record result.
func (h *Handler) ImportPlayers(c echo.Context) error {
	ctx := c.Request().Context()
	opts, err := importOptions(c)
	if err != nil {
		return err
	}
	result := h.importer.ImportPlayers(ctx, opts)
	return c.JSON(http.StatusOK, result)
}

// ImportSponsors runs a sponsor import into the CMS.
func (h *Handler) ImportSponsors(c echo.Context) error {
	ctx := c.Request().Context()
	opts, err := importOptions(c)
	if err != nil {
		return err
	}
	result := h.importer.ImportSponsors(ctx, opts)
	return c.JSON(http.StatusOK, result)
}

// WebhookLogs returns recent webhook deliveries, optionally filtered by
// status.
func (h *Handler) WebhookLogs(c echo.Context) error {
	ctx := c.Request().Context()

	var status *string
	if v := c.QueryParam("status"); v != "" {
		status = &v
	}
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	logs, err := h.logs.ListRecent(ctx, status, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": logs, "count": len(logs)})
}
