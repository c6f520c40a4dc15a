package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openclinic/formsync/pkg/pagination"
)

func performRequest(t *testing.T, repo *mockRepo, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewHandler(testService(repo)).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListEndpoint(t *testing.T) {
	rec := performRequest(t, newMockRepo(), "/api/v1/patients?limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 2 || resp.Limit != 1 || !resp.HasMore {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestExportEndpoint(t *testing.T) {
	rec := performRequest(t, newMockRepo(), "/api/v1/patients/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/octet-stream" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.Len() < 4 {
		t.Errorf("export body too short: %d bytes", rec.Body.Len())
	}
}

func TestListEndpointError(t *testing.T) {
	repo := newMockRepo()
	repo.fail = true
	rec := performRequest(t, repo, "/api/v1/patients")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
