package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/itchan-dev/itboard/internal/domain"
)

// multipartOverhead covers the text fields and boundaries of a post form.
const multipartOverhead = 1 << 20

// ValidateAndParseMultipart caps the request body and parses the multipart form.
// When the cap is hit the server stops reading and the browser may see a
// connection reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxFileSize int64) error {
	maxSize := CalculateMaxRequestSize(maxFileSize, multipartOverhead)
	if r.ContentLength > maxSize {
		return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxFileSize))
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxFileSize))
		}
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}

	return nil
}

// FormUpload returns the single optional file part named field. A missing
// part yields a nil upload. The caller closes the returned closer.
func FormUpload(r *http.Request, field string) (*domain.Upload, io.Closer, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	return &domain.Upload{
		Filename:    header.Filename,
		ContentType: DetectMimeType(header.Filename, header.Header.Get("Content-Type")),
		Size:        header.Size,
		Data:        file,
	}, file, nil
}

func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
