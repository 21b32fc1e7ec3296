package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/validation"
)

type FileService interface {
	SaveFile(ctx context.Context, boardId domain.PostId, upload *domain.Upload) (*domain.File, error)
	FindFilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error)
	FindFilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error)
	FindById(ctx context.Context, id domain.FileId) (domain.File, error)
	DeleteFile(ctx context.Context, bno domain.PostId) error
	RemoveFromDisk(files []domain.File)
	Open(file domain.File) (*os.File, error)
	OpenStored(storedName string) (*os.File, error)
}

type File struct {
	storage FileStorage
	media   MediaStorage
}

type FileStorage interface {
	SaveFile(ctx context.Context, file domain.File) (domain.FileId, error)
	FilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error)
	FilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error)
	File(ctx context.Context, id domain.FileId) (domain.File, error)
	DeleteFilesByBoardId(ctx context.Context, bno domain.PostId) error
}

type MediaStorage interface {
	// Save writes content under storedName and returns its full path.
	Save(data io.Reader, storedName string) (string, error)
	// Open opens content by stored name; names with path elements are not found.
	Open(storedName string) (*os.File, error)
	OpenPath(fullPath string) (*os.File, error)
	// DeletePath ignores files that are already gone.
	DeletePath(fullPath string) error
}

func NewFile(storage FileStorage, media MediaStorage) *File {
	return &File{storage: storage, media: media}
}

// SaveFile stores an attachment of post boardId. An empty upload is a no-op
// and returns nil.
func (f *File) SaveFile(ctx context.Context, boardId domain.PostId, upload *domain.Upload) (*domain.File, error) {
	if upload.Empty() {
		return nil, nil
	}

	ext, err := extension(upload.Filename)
	if err != nil {
		return nil, err
	}
	storedName := uuid.NewString() + ext

	contentType := upload.ContentType
	if contentType == "" {
		contentType = validation.DetectMimeType(upload.Filename, "")
	}
	width, height := validation.ExtractImageDimensions(upload.Data, contentType)

	fullPath, err := f.media.Save(upload.Data, storedName)
	if err != nil {
		logger.Log.Error("failed to write attachment", "stored_name", storedName, "error", err)
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	file := domain.File{
		BoardId:      boardId,
		OriginalName: upload.Filename,
		StoredName:   storedName,
		FilePath:     fullPath,
		ContentType:  contentType,
		SizeBytes:    upload.Size,
		ImageWidth:   width,
		ImageHeight:  height,
	}
	id, err := f.storage.SaveFile(ctx, file)
	if err != nil {
		// No row points at the content, so it must not stay on disk.
		if delErr := f.media.DeletePath(fullPath); delErr != nil {
			logger.Log.Error("failed to remove orphaned attachment", "path", fullPath, "error", delErr)
		}
		return nil, err
	}
	file.Id = id

	logger.Log.Info("attachment saved", "board_id", boardId, "file_id", id, "stored_name", storedName, "size", upload.Size)
	return &file, nil
}

func (f *File) FindFilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error) {
	return f.storage.FilesByBoardId(ctx, bno)
}

func (f *File) FindFilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	return f.storage.FilesByWriter(ctx, writer)
}

func (f *File) FindById(ctx context.Context, id domain.FileId) (domain.File, error) {
	return f.storage.File(ctx, id)
}

// DeleteFile removes every attachment of a post, content first, then rows.
func (f *File) DeleteFile(ctx context.Context, bno domain.PostId) error {
	files, err := f.storage.FilesByBoardId(ctx, bno)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := f.media.DeletePath(file.FilePath); err != nil {
			return err
		}
	}

	return f.storage.DeleteFilesByBoardId(ctx, bno)
}

// RemoveFromDisk deletes content whose rows are already gone. Failures are
// logged, not returned.
func (f *File) RemoveFromDisk(files []domain.File) {
	for _, file := range files {
		if err := f.media.DeletePath(file.FilePath); err != nil {
			logger.Log.Warn("failed to remove attachment content", "path", file.FilePath, "error", err)
		}
	}
}

func (f *File) Open(file domain.File) (*os.File, error) {
	return f.media.OpenPath(file.FilePath)
}

func (f *File) OpenStored(storedName string) (*os.File, error) {
	return f.media.Open(storedName)
}

// extension returns the suffix of name starting at its last dot.
func extension(name string) (string, error) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", internal_errors.ErrMissingExtension
	}
	ext := name[i:]
	if strings.ContainsAny(ext, `/\`) {
		return "", internal_errors.ErrMissingExtension
	}
	return ext, nil
}
