package form

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openclinic/formsync/internal/platform/schema"
)

// Handler provides the form schema download endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a form handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers form routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/forms/:id/schema", h.GetSchema)
}

// GetSchema handles GET /api/v1/forms/:id/schema?locale=en
func (h *Handler) GetSchema(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "form id must be a positive integer")
	}

	doc, err := h.svc.BuildSchema(c.Request().Context(), id, c.QueryParam("locale"))
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "form not found")
	case errors.Is(err, schema.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "schema generation failed")
	}

	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", []byte(doc))
}
