package audit

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hhm/maternity/internal/domain/errs"
	"github.com/hhm/maternity/internal/platform/auth"
	"github.com/hhm/maternity/pkg/pagination"
)

// Handler exposes the audit log read-only. Writes happen exclusively
// through the middleware recorder and Service.Append.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleServiceChief, auth.RoleAdminStaff))
	g.GET("/audit", h.Search)
	g.GET("/audit/:id", h.Get)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		UserID:   c.QueryParam("user_id"),
		Action:   c.QueryParam("action"),
		Entity:   c.QueryParam("entity"),
		EntityID: c.QueryParam("entity_id"),
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = t.AddDate(0, 0, 1)
	}
	items, total, err := h.svc.Search(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
