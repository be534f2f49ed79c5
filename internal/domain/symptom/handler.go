package symptom

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/symptoms/analyze", h.AnalyzeSymptom)
}

type analyzeRequest struct {
	Symptom string `json:"symptom"`
}

func (h *Handler) AnalyzeSymptom(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	advice, err := h.svc.Analyze(c.Request().Context(), req.Symptom)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "symptom analysis unavailable")
	}
	return c.JSON(http.StatusOK, advice)
}
