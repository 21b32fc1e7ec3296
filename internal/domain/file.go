package domain

import (
	"io"
	"strings"
	"time"
)

type FileId = int64

// File is the metadata of an attachment stored on disk.
type File struct {
	Id           FileId    `db:"id"`
	BoardId      PostId    `db:"board_id"`
	OriginalName string    `db:"original_name"`
	StoredName   string    `db:"stored_name"`
	FilePath     string    `db:"file_path"`
	ContentType  string    `db:"content_type"`
	SizeBytes    int64     `db:"size_bytes"`
	ImageWidth   *int      `db:"image_width"`
	ImageHeight  *int      `db:"image_height"`
	CreatedAt    time.Time `db:"created_at"`
}

func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// Upload is an attachment received from a form, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.ReadSeeker
}

func (u *Upload) Empty() bool {
	return u == nil || u.Data == nil || u.Size == 0 || u.Filename == ""
}
