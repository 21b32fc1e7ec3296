package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ImageGetHandler serves an attachment by its stored name, inline.
func (h *Handler) ImageGetHandler(w http.ResponseWriter, r *http.Request) {
	storedName := chi.URLParam(r, "filename")
	f, err := h.files.OpenStored(storedName)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, storedName, info.ModTime(), f)
}

// FileDownloadGetHandler sends an attachment under its original name.
func (h *Handler) FileDownloadGetHandler(w http.ResponseWriter, r *http.Request) {
	fileId, err := strconv.ParseInt(chi.URLParam(r, "fileId"), 10, 64)
	if err != nil || fileId <= 0 {
		h.NotFound(w, r)
		return
	}

	file, err := h.files.FindById(r.Context(), fileId)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}

	f, err := h.files.Open(file)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(file.OriginalName))
	http.ServeContent(w, r, file.OriginalName, info.ModTime(), f)
}

func contentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, encodeFilename(filename))
}

// encodeFilename percent-encodes every UTF-8 byte outside the RFC 3986
// unreserved set, so a space becomes %20 rather than +.
func encodeFilename(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
