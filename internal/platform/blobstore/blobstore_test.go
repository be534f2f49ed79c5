package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMemStore_SaveAndOpen(t *testing.T) {
	store := NewMemStore()

	meta, err := store.Save(context.Background(), FileMeta{
		FileName:    "labs.pdf",
		ContentType: "application/pdf",
	}, strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if meta.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if meta.Size != int64(len("pdf bytes")) {
		t.Errorf("expected size %d, got %d", len("pdf bytes"), meta.Size)
	}
	if meta.Hash == "" {
		t.Error("expected hash to be computed")
	}
	if meta.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	rc, got, err := store.Open(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf bytes" {
		t.Errorf("unexpected content %q", data)
	}
	if got.FileName != "labs.pdf" {
		t.Errorf("unexpected file name %q", got.FileName)
	}
}

func TestMemStore_SaveValidation(t *testing.T) {
	store := NewMemStore()

	if _, err := store.Save(context.Background(), FileMeta{}, strings.NewReader("x")); err != ErrMissingFileName {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
}

func TestMemStore_NotFound(t *testing.T) {
	store := NewMemStore()

	if _, _, err := store.Open(context.Background(), "missing"); err != ErrFileNotFound {
		t.Errorf("Open: expected ErrFileNotFound, got %v", err)
	}
	if _, err := store.Metadata(context.Background(), "missing"); err != ErrFileNotFound {
		t.Errorf("Metadata: expected ErrFileNotFound, got %v", err)
	}
	if err := store.Delete(context.Background(), "missing"); err != ErrFileNotFound {
		t.Errorf("Delete: expected ErrFileNotFound, got %v", err)
	}
}

func TestMemStore_Delete(t *testing.T) {
	store := NewMemStore()
	meta, _ := store.Save(context.Background(), FileMeta{FileName: "a.txt"}, strings.NewReader("x"))

	if err := store.Delete(context.Background(), meta.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Metadata(context.Background(), meta.ID); err != ErrFileNotFound {
		t.Errorf("expected file gone, got %v", err)
	}
}

func TestMemStore_ListPaging(t *testing.T) {
	store := NewMemStore()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := store.Save(context.Background(), FileMeta{FileName: name}, strings.NewReader("x")); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	items, total, err := store.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	items, _, _ = store.List(context.Background(), 2, 2)
	if len(items) != 1 {
		t.Errorf("expected 1 item on second page, got %d", len(items))
	}
}

func newUploadRequest(t *testing.T, fileName, content string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestHandler_UploadDownloadRoundTrip(t *testing.T) {
	e := echo.New()
	NewHandler(NewMemStore()).RegisterRoutes(e.Group("/api/v1"))

	req, rec := newUploadRequest(t, "report.png", "png bytes")
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var meta FileMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/"+meta.ID, nil)
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", rec2.Code)
	}
	if rec2.Body.String() != "png bytes" {
		t.Errorf("unexpected downloaded content %q", rec2.Body.String())
	}
	if cd := rec2.Header().Get("Content-Disposition"); !strings.Contains(cd, "report.png") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
}

func TestHandler_UploadMissingFile(t *testing.T) {
	e := echo.New()
	NewHandler(NewMemStore()).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", strings.NewReader(""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_DownloadNotFound(t *testing.T) {
	e := echo.New()
	NewHandler(NewMemStore()).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
