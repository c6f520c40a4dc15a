package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openclinic/formsync/pkg/pagination"
)

// Handler provides patient listing and batch export endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a patient handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers patient routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.GET("/patients/export", h.Export)
}

// List handles GET /api/v1/patients
func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "patient listing failed")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}

// Export handles GET /api/v1/patients/export, streaming the encoded
// batch to the client.
func (h *Handler) Export(c echo.Context) error {
	data, err := h.svc.ExportBatch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "patient export failed")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}
