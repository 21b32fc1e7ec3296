package validation

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

const defaultMimeType = "application/octet-stream"

// DetectMimeType trusts the declared type unless it is missing or generic,
// in which case the file extension decides.
func DetectMimeType(filename, declared string) string {
	mimeType := declared
	if mimeType == "" || mimeType == defaultMimeType {
		if detected := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); detected != "" {
			mimeType = detected
		}
	}
	if mimeType == "" {
		return defaultMimeType
	}
	// drop parameters such as "; charset=utf-8"
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	return mimeType
}

// ExtractImageDimensions reads the image header of png, jpeg, gif and webp
// content. The reader is rewound afterwards. Non-images and undecodable
// content yield nil dimensions.
func ExtractImageDimensions(data io.ReadSeeker, mimeType string) (*int, *int) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	cfg, _, err := image.DecodeConfig(data)
	data.Seek(0, io.SeekStart)
	if err != nil {
		return nil, nil
	}

	width, height := cfg.Width, cfg.Height
	return &width, &height
}
