package report

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthtrack/healthtrack/internal/platform/auth"
	"github.com/healthtrack/healthtrack/pkg/pagination"
)

// AllowedExtensions is the upload accept filter. A 10 MB limit is
// advertised in UI copy only; the submit flow does not enforce it.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".txt":  true,
}

type Handler struct {
	svc    *Service
	shares *auth.ShareTokens
}

func NewHandler(svc *Service, shares *auth.ShareTokens) *Handler {
	return &Handler{svc: svc, shares: shares}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.SubmitReport)
	api.GET("/reports/session", h.GetSession)
	api.POST("/reports/reset", h.ResetSession)
	api.GET("/reports/archive", h.ListArchive)
	api.GET("/reports/archive/:id", h.GetArchived)
	api.POST("/reports/archive/:id/share", h.ShareAnalysis)
	api.GET("/reports/shared/:token", h.GetShared)
}

// SubmitReport accepts a multipart upload and starts the analysis. A
// request without a file part is the cancelled-picker case and leaves the
// session unchanged.
func (h *Handler) SubmitReport(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		s := h.svc.Submit(nil)
		return c.JSON(http.StatusOK, NewDashboardView(&s))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedExtensions[ext] {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported file type: "+ext)
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session := h.svc.Submit(&Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	return c.JSON(http.StatusAccepted, NewDashboardView(&session))
}

func (h *Handler) GetSession(c echo.Context) error {
	session := h.svc.Session()
	return c.JSON(http.StatusOK, NewDashboardView(&session))
}

// ResetSession is the "Upload Another Report" action.
func (h *Handler) ResetSession(c echo.Context) error {
	session := h.svc.Reset()
	return c.JSON(http.StatusOK, NewDashboardView(&session))
}

func (h *Handler) ListArchive(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Archive().List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetArchived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Archive().GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ShareAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := h.svc.Archive().GetByID(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	token, expires, err := h.shares.Issue(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.svc.notifier.ShareLinkCreated(expires)
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token":      token,
		"expires_at": expires,
	})
}

func (h *Handler) GetShared(c echo.Context) error {
	id, err := h.shares.Verify(c.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired share link")
	}
	a, err := h.svc.Archive().GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "analysis not found")
	}
	return c.JSON(http.StatusOK, a)
}
