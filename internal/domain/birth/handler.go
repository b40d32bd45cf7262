package birth

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
	readGroup := api.Group("", auth.RequireRole(
		auth.RoleMidwife, auth.RoleObstetrician, auth.RolePediatrician,
		auth.RoleNeonatalNurse, auth.RoleServiceChief))
	readGroup.GET("/births", h.List)
	readGroup.GET("/births/:id", h.Get)
	readGroup.GET("/births/:id/complications", h.ListComplications)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMidwife, auth.RoleObstetrician))
	writeGroup.POST("/births", h.Create)
	writeGroup.PUT("/births/:id", h.Update)
	writeGroup.DELETE("/births/:id", h.Delete)
	writeGroup.POST("/births/:id/complications", h.RecordComplication)
	writeGroup.DELETE("/maternal-complications/:id", h.DeleteComplication)

	reportGroup := api.Group("", auth.RequireRole(auth.RoleServiceChief, auth.RoleAdminStaff))
	reportGroup.GET("/reports/robson", h.RobsonReport)
}

func (h *Handler) Create(c echo.Context) error {
	var e Event
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.RecordedBy = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &e); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, e)
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

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return errs.HTTPError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
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
	var e Event
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.Update(c.Request().Context(), &e); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, e)
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

// -- Complications --

func (h *Handler) RecordComplication(c echo.Context) error {
	birthEventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid birth id")
	}
	var mc MaternalComplication
	if err := c.Bind(&mc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mc.BirthEventID = birthEventID
	mc.RecordedBy = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.RecordComplication(c.Request().Context(), &mc); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, mc)
}

func (h *Handler) ListComplications(c echo.Context) error {
	birthEventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid birth id")
	}
	items, err := h.svc.ListComplications(c.Request().Context(), birthEventID)
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

// -- Robson Report --

func (h *Handler) RobsonReport(c echo.Context) error {
	from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.RobsonReport(c.Request().Context(), from, to)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"groups": report,
	})
}

// parseDateRange resolves the from/to query params, defaulting to the
// last 30 days when absent.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}
