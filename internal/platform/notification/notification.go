// Package notification provides the dashboard's toast-style notification
// feed: an in-memory center with template rendering and Echo HTTP handlers
// for listing and acknowledging notifications.
package notification

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Level is the severity of a notification. The report flow emits info on
// analysis start and success on completion; it never emits an error.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

// Notification is a single feed entry.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Level   Level  `json:"level"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "analysis-started",
			Subject: "Analyzing Report",
			Body:    "AI is analyzing {{file_name}}...",
			Level:   LevelInfo,
		},
		{
			ID:      "analysis-complete",
			Subject: "Analysis Complete",
			Body:    "Your report {{file_name}} has been analyzed successfully!",
			Level:   LevelSuccess,
		},
		{
			ID:      "share-link-created",
			Subject: "Share Link Created",
			Body:    "A share link for your analysis is valid until {{expires_at}}.",
			Level:   LevelInfo,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using
// the supplied data map. Keys present in the template but absent from data
// are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (*Template, error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("template %q not found", templateID)
	}

	out := *t
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		out.Subject = strings.ReplaceAll(out.Subject, placeholder, v)
		out.Body = strings.ReplaceAll(out.Body, placeholder, v)
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Center
// ---------------------------------------------------------------------------

// maxFeedSize caps the in-memory feed; old entries fall off the front.
const maxFeedSize = 100

// Center stores and serves the notification feed.
type Center struct {
	mu        sync.RWMutex
	feed      []*Notification
	templates *TemplateEngine
}

func NewCenter() *Center {
	return &Center{templates: NewTemplateEngine()}
}

// Publish appends a notification to the feed.
func (c *Center) Publish(level Level, subject, body string) *Notification {
	n := &Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.feed = append(c.feed, n)
	if len(c.feed) > maxFeedSize {
		c.feed = c.feed[len(c.feed)-maxFeedSize:]
	}
	c.mu.Unlock()
	return n
}

// PublishFromTemplate renders a template and publishes the result.
func (c *Center) PublishFromTemplate(templateID string, data map[string]string) (*Notification, error) {
	t, err := c.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return c.Publish(t.Level, t.Subject, t.Body), nil
}

// AnalysisStarted publishes the analysis-started toast for a file. Part
// of the report flow's Notifier contract.
func (c *Center) AnalysisStarted(fileName string) {
	c.mustPublishFromTemplate("analysis-started", map[string]string{"file_name": fileName})
}

// AnalysisComplete publishes the analysis-complete toast for a file. Part
// of the report flow's Notifier contract.
func (c *Center) AnalysisComplete(fileName string) {
	c.mustPublishFromTemplate("analysis-complete", map[string]string{"file_name": fileName})
}

// ShareLinkCreated publishes the share-link toast with its expiry. Part
// of the report flow's Notifier contract.
func (c *Center) ShareLinkCreated(expiresAt time.Time) {
	c.mustPublishFromTemplate("share-link-created", map[string]string{
		"expires_at": expiresAt.UTC().Format(time.RFC1123),
	})
}

// mustPublishFromTemplate renders a built-in template; the built-ins are
// registered at construction, so a render failure is a programming error.
func (c *Center) mustPublishFromTemplate(templateID string, data map[string]string) {
	if _, err := c.PublishFromTemplate(templateID, data); err != nil {
		panic(fmt.Sprintf("notification: built-in template %q: %v", templateID, err))
	}
}

// List returns the feed, newest first.
func (c *Center) List() []*Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Notification, 0, len(c.feed))
	for i := len(c.feed) - 1; i >= 0; i-- {
		cp := *c.feed[i]
		out = append(out, &cp)
	}
	return out
}

// MarkRead acknowledges a notification by id.
func (c *Center) MarkRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.feed {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification %q not found", id)
}

// Unread returns the number of unread notifications.
func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, n := range c.feed {
		if !n.Read {
			count++
		}
	}
	return count
}

// ---------------------------------------------------------------------------
// HTTP Handlers
// ---------------------------------------------------------------------------

// Handler exposes the notification feed over HTTP.
type Handler struct {
	center *Center
}

func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.ListNotifications)
	api.POST("/notifications/:id/read", h.MarkRead)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": h.center.List(),
		"unread":        h.center.Unread(),
	})
}

func (h *Handler) MarkRead(c echo.Context) error {
	if err := h.center.MarkRead(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
