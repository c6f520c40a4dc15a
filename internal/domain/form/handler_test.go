package form

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func performSchemaRequest(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewHandler(testService()).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetSchemaOK(t *testing.T) {
	rec := performSchemaRequest(t, "/api/v1/forms/1/schema")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<xs:schema") {
		t.Error("body is not a schema document")
	}
}

func TestGetSchemaNotFound(t *testing.T) {
	rec := performSchemaRequest(t, "/api/v1/forms/99/schema")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetSchemaBadID(t *testing.T) {
	for _, target := range []string{"/api/v1/forms/abc/schema", "/api/v1/forms/-1/schema"} {
		rec := performSchemaRequest(t, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}
