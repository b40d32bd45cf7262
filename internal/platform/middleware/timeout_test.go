package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRequestTimeout_CompletesInTime(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RequestTimeout(time.Second)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequestTimeout_DeadlineExceeded(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		select {
		case <-time.After(time.Second):
			return c.String(http.StatusOK, "too late")
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	mw := RequestTimeout(20 * time.Millisecond)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}

func TestRequestTimeout_PropagatesDeadline(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); !ok {
			t.Error("expected deadline on request context")
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := RequestTimeout(time.Second)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
