package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "?limit=50&offset=10")
	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_CapsLimit(t *testing.T) {
	p := paramsFor(t, "?limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_IgnoresGarbage(t *testing.T) {
	p := paramsFor(t, "?limit=abc&offset=-3")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit, got %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	resp := NewResponse(nil, 100, 20, 0)
	if !resp.HasMore {
		t.Error("expected HasMore true for first page of 100")
	}

	resp = NewResponse(nil, 100, 20, 80)
	if resp.HasMore {
		t.Error("expected HasMore false on last page")
	}
}

func TestParams_Offsets(t *testing.T) {
	p := Params{Limit: 20, Offset: 10}
	if p.NextOffset() != 30 {
		t.Errorf("expected next offset 30, got %d", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("expected previous offset clamped to 0, got %d", p.PreviousOffset())
	}
	if !p.HasPrevious() {
		t.Error("expected HasPrevious true at offset 10")
	}
}

func TestParams_Links(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	links := p.Links("/api/v1/patients", 100)

	if len(links) != 3 {
		t.Fatalf("expected self/next/previous links, got %d", len(links))
	}
	if links[0].Relation != "self" || links[0].URL != "/api/v1/patients?offset=20&limit=20" {
		t.Errorf("unexpected self link: %+v", links[0])
	}
	if links[1].Relation != "next" || links[1].URL != "/api/v1/patients?offset=40&limit=20" {
		t.Errorf("unexpected next link: %+v", links[1])
	}
	if links[2].Relation != "previous" || links[2].URL != "/api/v1/patients?offset=0&limit=20" {
		t.Errorf("unexpected previous link: %+v", links[2])
	}
}
