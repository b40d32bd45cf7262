package alert

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hhm/maternity/internal/domain/errs"
	"github.com/hhm/maternity/internal/platform/auth"
	"github.com/hhm/maternity/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := api.Group("", auth.RequireClinical())
	clinical.GET("/alerts", h.List)
	clinical.GET("/alerts/:id", h.Get)
	clinical.POST("/alerts", h.Create)
	clinical.POST("/alerts/:id/attend", h.Attend)
	clinical.POST("/alerts/:id/resolve", h.Resolve)
	clinical.POST("/alerts/:id/discard", h.Discard)

	reportGroup := api.Group("", auth.RequireRole(auth.RoleServiceChief, auth.RoleAdminStaff))
	reportGroup.GET("/reports/alerts", h.Report)
}

// alertView decorates an alert with its waiting time for the ward board.
type alertView struct {
	*Alert
	MinutesWithoutAttention int `json:"minutes_without_attention"`
}

func view(a *Alert) alertView {
	return alertView{Alert: a, MinutesWithoutAttention: a.MinutesWithoutAttention(time.Now())}
}

// transitionResponse is the 200 payload for lifecycle calls. Warning is
// set when the requested transition was skipped as a no-op.
type transitionResponse struct {
	Alert   alertView `json:"alert"`
	Warning string    `json:"warning,omitempty"`
}

func transitionJSON(c echo.Context, a *Alert, err error) error {
	if err != nil {
		if errs.IsWarning(err) {
			return c.JSON(http.StatusOK, transitionResponse{Alert: view(a), Warning: err.Error()})
		}
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, transitionResponse{Alert: view(a)})
}

func (h *Handler) Create(c echo.Context) error {
	var a Alert
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.RaisedBy = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, view(&a))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view(a))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		State:     c.QueryParam("state"),
		Urgency:   c.QueryParam("urgency"),
		AlertType: c.QueryParam("type"),
	}
	if newbornID := c.QueryParam("newborn_id"); newbornID != "" {
		nid, err := uuid.Parse(newbornID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid newborn_id")
		}
		f.NewbornID = &nid
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return errs.HTTPError(err)
	}
	views := make([]alertView, 0, len(items))
	for _, a := range items {
		views = append(views, view(a))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) Attend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.MarkInAttention(c.Request().Context(), id, userID)
	return transitionJSON(c, a, err)
}

func (h *Handler) Resolve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.MarkResolved(c.Request().Context(), id, userID, body.Notes)
	return transitionJSON(c, a, err)
}

func (h *Handler) Discard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Discard(c.Request().Context(), id)
	return transitionJSON(c, a, err)
}

func (h *Handler) Report(c echo.Context) error {
	counts, err := h.svc.Report(c.Request().Context())
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"counts": counts})
}
