package prenatal

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
		auth.RoleNeonatalNurse, auth.RoleServiceChief))
	readGroup.GET("/prenatal-controls", h.ListControls)
	readGroup.GET("/prenatal-controls/:id", h.GetControl)
	readGroup.GET("/prenatal-controls/:id/exams", h.ListExams)
	readGroup.GET("/prenatal-controls/:id/exams/critical", h.ListCriticalExams)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleMidwife, auth.RoleObstetrician))
	writeGroup.POST("/prenatal-controls", h.CreateControl)
	writeGroup.PUT("/prenatal-controls/:id", h.UpdateControl)
	writeGroup.DELETE("/prenatal-controls/:id", h.DeleteControl)
	writeGroup.POST("/prenatal-controls/:id/exams", h.RecordExam)
	writeGroup.PUT("/prenatal-exams/:id", h.UpdateExam)
	writeGroup.DELETE("/prenatal-exams/:id", h.DeleteExam)
}

// -- Control Handlers --

func (h *Handler) CreateControl(c echo.Context) error {
	var ctrl Control
	if err := c.Bind(&ctrl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateControl(c.Request().Context(), &ctrl); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, ctrl)
}

func (h *Handler) GetControl(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctrl, err := h.svc.GetControl(c.Request().Context(), id)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, ctrl)
}

func (h *Handler) ListControls(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListControlsByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return errs.HTTPError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListControls(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateControl(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ctrl Control
	if err := c.Bind(&ctrl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctrl.ID = id
	if err := h.svc.UpdateControl(c.Request().Context(), &ctrl); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, ctrl)
}

func (h *Handler) DeleteControl(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteControl(c.Request().Context(), id); err != nil {
		return errs.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Exam Handlers --

func (h *Handler) RecordExam(c echo.Context) error {
	controlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid control id")
	}
	var e Exam
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ControlID = controlID
	if err := h.svc.RecordExam(c.Request().Context(), &e); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListExams(c echo.Context) error {
	controlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid control id")
	}
	items, err := h.svc.ListExamsByControl(c.Request().Context(), controlID)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListCriticalExams(c echo.Context) error {
	controlID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid control id")
	}
	items, err := h.svc.CriticalExamsByControl(c.Request().Context(), controlID)
	if err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Exam
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateExam(c.Request().Context(), &e); err != nil {
		return errs.HTTPError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteExam(c.Request().Context(), id); err != nil {
		return errs.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
