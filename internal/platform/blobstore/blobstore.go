// Package blobstore keeps the raw lab report files users upload, so the
// original document stays retrievable after its analysis completes. It
// defines the Store interface, an in-memory implementation, and Echo HTTP
// handlers for upload, download, metadata, listing, and deletion.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthtrack/healthtrack/pkg/pagination"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrMissingFileName = errors.New("file name is required")
)

// MaxFileSize is the storage-side cap in bytes (25 MB). It is deliberately
// looser than the 10 MB figure shown in upload UI copy.
const MaxFileSize = 25 * 1024 * 1024

// FileMeta describes a stored report file.
type FileMeta struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the contract for report file storage backends.
type Store interface {
	Save(ctx context.Context, meta FileMeta, content io.Reader) (*FileMeta, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *FileMeta, error)
	Metadata(ctx context.Context, id string) (*FileMeta, error)
	List(ctx context.Context, limit, offset int) ([]*FileMeta, int, error)
	Delete(ctx context.Context, id string) error
}

type storedFile struct {
	meta    FileMeta
	content []byte
}

// MemStore is a thread-safe in-memory Store.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]*storedFile
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]*storedFile)}
}

// Save reads the content, computes a SHA-256 hash, and stores the file.
func (s *MemStore) Save(_ context.Context, meta FileMeta, content io.Reader) (*FileMeta, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)
	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.files[meta.ID] = &storedFile{meta: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

// Open returns the file content and its metadata.
func (s *MemStore) Open(_ context.Context, id string) (io.ReadCloser, *FileMeta, error) {
	s.mu.RLock()
	f, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrFileNotFound
	}
	meta := f.meta
	return io.NopCloser(bytes.NewReader(f.content)), &meta, nil
}

// Metadata returns file metadata without content.
func (s *MemStore) Metadata(_ context.Context, id string) (*FileMeta, error) {
	s.mu.RLock()
	f, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFileNotFound
	}
	meta := f.meta
	return &meta, nil
}

// List returns a page of file metadata, newest first, and the total count.
func (s *MemStore) List(_ context.Context, limit, offset int) ([]*FileMeta, int, error) {
	s.mu.RLock()
	all := make([]*FileMeta, 0, len(s.files))
	for _, f := range s.files {
		m := f.meta
		all = append(all, &m)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Delete removes a file by ID.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return ErrFileNotFound
	}
	delete(s.files, id)
	return nil
}

// Handler exposes the file locker over HTTP.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/uploads", h.handleUpload)
	g.GET("/uploads", h.handleList)
	g.GET("/uploads/:id", h.handleDownload)
	g.GET("/uploads/:id/metadata", h.handleMetadata)
	g.DELETE("/uploads/:id", h.handleDelete)
}

func (h *Handler) handleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()

	meta := FileMeta{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}

	result, err := h.store.Save(c.Request().Context(), meta, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, ErrMissingFileName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) handleList(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.store.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*FileMeta{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) handleDownload(c echo.Context) error {
	rc, meta, err := h.store.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) handleMetadata(c echo.Context) error {
	meta, err := h.store.Metadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *Handler) handleDelete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
