package newborn

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hhm/maternity/internal/domain/alert"
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
	readGroup := api.Group("", auth.RequireRole(
		auth.RoleMidwife, auth.RoleObstetrician, auth.RolePediatrician,
		auth.RoleNeonatalNurse, auth.RoleServiceChief))
	readGroup.GET("/newborns", h.List)
	readGroup.GET("/newborns/:id", h.Get)
	readGroup.GET("/newborns/:id/apgar-details", h.ListAPGARDetails)
	readGroup.GET("/newborns/:id/complications", h.ListComplications)

	writeGroup := api.Group("", auth.RequireRole(auth.RolePediatrician, auth.RoleNeonatalNurse))
	writeGroup.POST("/newborns", h.Register)
	writeGroup.PUT("/newborns/:id", h.Update)
	writeGroup.DELETE("/newborns/:id", h.Delete)
	writeGroup.POST("/newborns/:id/apgar-details", h.RecordAPGARDetail)
	writeGroup.POST("/newborns/:id/complications", h.RecordComplication)
	writeGroup.DELETE("/neonatal-complications/:id", h.DeleteComplication)
}

// registrationResponse returns the stored evaluation together with the
// alerts the evaluation raised, so the ward sees them immediately.
type registrationResponse struct {
	Newborn      *Newborn       `json:"newborn"`
	AlertsRaised []*alert.Alert `json:"alerts_raised"`
}

func (h *Handler) Register(c echo.Context) error {
	var n Newborn
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n.EvaluatedBy = auth.UserIDFromContext(c.Request().Context())
	raised, err := h.svc.Register(c.Request().Context(), &n)
	if err != nil {
		return errs.HTTPError(err)
	}
	if raised == nil {
		raised = []*alert.Alert{}
	}
	return c.JSON(http.StatusCreated, registrationResponse{Newborn: &n, AlertsRaised: raised})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	assessment, err := h.svc.Assess(c.Request().Context(), id)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, assessment)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if birthEventID := c.QueryParam("birth_event_id"); birthEventID != "" {
		bid, err := uuid.Parse(birthEventID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid birth_event_id")
		}
		n, err := h.svc.GetByBirthEvent(c.Request().Context(), bid)
		if err != nil {
			return errs.HTTPError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse([]*Newborn{n}, 1, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var n Newborn
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	n.ID = id
	raised, err := h.svc.Update(c.Request().Context(), &n)
	if err != nil {
		return errs.HTTPError(err)
	}
	if raised == nil {
		raised = []*alert.Alert{}
	}
	return c.JSON(http.StatusOK, registrationResponse{Newborn: &n, AlertsRaised: raised})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return errs.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- APGAR details --

// apgarDetailView adds the derived total and classification to the sheet.
type apgarDetailView struct {
	*APGARDetail
	Total          int    `json:"total"`
	Classification string `json:"classification"`
}

func detailView(d *APGARDetail) apgarDetailView {
	return apgarDetailView{APGARDetail: d, Total: d.Total(), Classification: d.Classification()}
}

func (h *Handler) RecordAPGARDetail(c echo.Context) error {
	newbornID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid newborn id")
	}
	var d APGARDetail
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.NewbornID = newbornID
	d.EvaluatedBy = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.RecordAPGARDetail(c.Request().Context(), &d); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, detailView(&d))
}

func (h *Handler) ListAPGARDetails(c echo.Context) error {
	newbornID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid newborn id")
	}
	items, err := h.svc.ListAPGARDetails(c.Request().Context(), newbornID)
	if err != nil {
		return errs.HTTPError(err)
	}
	views := make([]apgarDetailView, 0, len(items))
	for _, d := range items {
		views = append(views, detailView(d))
	}
	return c.JSON(http.StatusOK, views)
}

// -- Complications --

func (h *Handler) RecordComplication(c echo.Context) error {
	newbornID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid newborn id")
	}
	var nc NeonatalComplication
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	nc.NewbornID = newbornID
	nc.RecordedBy = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.RecordComplication(c.Request().Context(), &nc); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, nc)
}

func (h *Handler) ListComplications(c echo.Context) error {
	newbornID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid newborn id")
	}
	items, err := h.svc.ListComplications(c.Request().Context(), newbornID)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteComplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteComplication(c.Request().Context(), id); err != nil {
		return errs.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
