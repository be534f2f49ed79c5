package symptom

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(client *recordingClient) (*echo.Echo, *Handler) {
	e := echo.New()
	h := NewHandler(NewService(client, zerolog.Nop()))
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, h
}

func TestAnalyzeSymptom_OK(t *testing.T) {
	e, _ := newTestHandler(&recordingClient{reply: "See a doctor within 48 hours."})

	body := `{"symptom":"chest tightness when climbing stairs"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptoms/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var advice Advice
	if err := json.Unmarshal(rec.Body.Bytes(), &advice); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if advice.Result != "See a doctor within 48 hours." {
		t.Errorf("unexpected result %q", advice.Result)
	}
}

func TestAnalyzeSymptom_Blank(t *testing.T) {
	e, _ := newTestHandler(&recordingClient{reply: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptoms/analyze", strings.NewReader(`{"symptom":"   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var advice Advice
	if err := json.Unmarshal(rec.Body.Bytes(), &advice); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if advice.Result != EmptySymptomAdvice {
		t.Errorf("expected fixed blank-input message, got %q", advice.Result)
	}
}

func TestAnalyzeSymptom_BadBody(t *testing.T) {
	e, _ := newTestHandler(&recordingClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptoms/analyze", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
