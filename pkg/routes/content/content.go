// Package content serves read access to the mirrored rows.
package content

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/seatonfc/contentbridge/internal/repositories/matchgallery"
	"github.com/seatonfc/contentbridge/internal/repositories/newsarticle"
	"github.com/seatonfc/contentbridge/internal/repositories/person"
	"github.com/seatonfc/contentbridge/internal/repositories/sponsor"
	"github.com/seatonfc/contentbridge/pkg/resolve"
)

// Handler serves the content read API.
type Handler struct {
	people    *person.Repository
	sponsors  *sponsor.Repository
	galleries *matchgallery.Repository
	news      *newsarticle.Repository
	resolver  *resolve.Resolver
}

func NewHandler(people *person.Repository, sponsors *sponsor.Repository, galleries *matchgallery.Repository, news *newsarticle.Repository, resolver *resolve.Resolver) *Handler {
	return &Handler{
		people:    people,
		sponsors:  sponsors,
		galleries: galleries,
		news:      news,
		resolver:  resolver,
	}
}

// RegisterRoutes registers content endpoints
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/players", h.ListPlayers)
	g.GET("/people/:documentID", h.GetPerson)
	g.GET("/sponsors", h.ListSponsors)
	g.GET("/sponsors/:documentID", h.GetSponsor)
	g.GET("/galleries", h.ListGalleries)
	g.GET("/news", h.ListNews)
}

// ListPlayers returns the current squad.
func (h *Handler) ListPlayers(c echo.Context) error {
	ctx := c.Request().Context()
	players, err := h.people.ListPlayers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": players, "count": len(players)})
}

// GetPerson resolves a person row from a CMS document ID, draft or
// published.
func (h *Handler) GetPerson(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.resolver.PersonForDocument(ctx, c.Param("documentID"))
	if err != nil {
		return err
	}
	if p == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "person not found")
	}
	return c.JSON(http.StatusOK, p)
}

// ListSponsors returns all live sponsors.
func (h *Handler) ListSponsors(c echo.Context) error {
	ctx := c.Request().Context()
	sponsors, err := h.sponsors.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": sponsors, "count": len(sponsors)})
}

// GetSponsor resolves a sponsor row from a CMS document ID.
func (h *Handler) GetSponsor(c echo.Context) error {
	ctx := c.Request().Context()

	s, err := h.resolver.SponsorForDocument(ctx, c.Param("documentID"))
	if err != nil {
		return err
	}
	if s == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "sponsor not found")
	}
	return c.JSON(http.StatusOK, s)
}

// ListGalleries returns live match galleries newest first.
func (h *Handler) ListGalleries(c echo.Context) error {
	ctx := c.Request().Context()
	galleries, err := h.galleries.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": galleries, "count": len(galleries)})
}

// ListNews returns recent articles.
func (h *Handler) ListNews(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	articles, err := h.news.List(ctx, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": articles, "count": len(articles)})
}
