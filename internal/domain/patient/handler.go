package patient

import (
	"net/http"

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
		auth.RoleNeonatalNurse, auth.RoleAdminStaff, auth.RoleServiceChief))
	readGroup.GET("/patients", h.List)
	readGroup.GET("/patients/:id", h.Get)

	writeGroup := api.Group("", auth.RequireRole(
		auth.RoleMidwife, auth.RoleObstetrician, auth.RoleAdminStaff))
	writeGroup.POST("/patients", h.Create)
	writeGroup.PUT("/patients/:id", h.Update)
	writeGroup.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	// A patient can be fetched by record id or by RUT.
	param := c.Param("id")
	if id, err := uuid.Parse(param); err == nil {
		p, err := h.svc.Get(c.Request().Context(), id)
		if err != nil {
			return errs.HTTPError(err)
		}
		return c.JSON(http.StatusOK, p)
	}
	p, err := h.svc.GetByRUT(c.Request().Context(), param)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	if q := c.QueryParam("q"); q != "" {
		items, total, err := h.svc.Search(c.Request().Context(), q, pg.Limit, pg.Offset)
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
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
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
