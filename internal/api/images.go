package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	imageDir       = "images"
	maxUploadBytes = 10 << 20 // 10 MB
)

// allowed hero image extensions.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true, ".svg": true,
}

// ImageHandler accepts hero image uploads into the site's images directory.
type ImageHandler struct {
	siteRoot string
}

// NewImageHandler creates a handler rooted at the site directory.
func NewImageHandler(siteRoot string) *ImageHandler {
	return &ImageHandler{siteRoot: siteRoot}
}

func (h *ImageHandler) imagePath() string {
	return filepath.Join(h.siteRoot, imageDir)
}

// safeName validates that the filename is a plain image name (no path
// separators, no traversal) and returns the absolute destination path.
func (h *ImageHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if !imageExts[strings.ToLower(filepath.Ext(cleaned))] {
		return "", fmt.Errorf("unsupported image type: %s", name)
	}
	abs := filepath.Join(h.imagePath(), cleaned)
	if !strings.HasPrefix(abs, h.imagePath()+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes images directory")
	}
	return abs, nil
}

// Upload handles POST /api/admin/images (multipart/form-data, field "file").
// The returned URL is what the editor puts into the post's heroImage.src.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.imagePath(), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create images dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Filename: header.Filename,
		Size:     written,
		URL:      "/" + imageDir + "/" + header.Filename,
	})
}
