// Package navigation resolves the dashboard's quick-action targets
// (medicines, doctors, reminders) to their configured destinations.
package navigation

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Targets maps quick-action names to destination URLs.
type Targets struct {
	Medicines string
	Doctors   string
	Reminders string
}

type Handler struct {
	targets Targets
}

func NewHandler(targets Targets) *Handler {
	return &Handler{targets: targets}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/nav/:target", h.Redirect)
	api.GET("/nav", h.ListTargets)
}

// Redirect sends the caller to the configured destination for a target.
func (h *Handler) Redirect(c echo.Context) error {
	dest, ok := h.resolve(c.Param("target"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown navigation target")
	}
	return c.Redirect(http.StatusFound, dest)
}

// ListTargets returns the full target map so clients can render links
// without a round trip per click.
func (h *Handler) ListTargets(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"medicines": h.targets.Medicines,
		"doctors":   h.targets.Doctors,
		"reminders": h.targets.Reminders,
	})
}

func (h *Handler) resolve(target string) (string, bool) {
	switch target {
	case "medicines":
		return h.targets.Medicines, true
	case "doctors":
		return h.targets.Doctors, true
	case "reminders":
		return h.targets.Reminders, true
	default:
		return "", false
	}
}
