package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/jmoiron/sqlx"
)

const fileColumns = "id, board_id, original_name, stored_name, file_path, content_type, size_bytes, image_width, image_height, created_at"

// SaveFile records attachment metadata and returns the new file id.
func (s *Storage) SaveFile(ctx context.Context, file domain.File) (domain.FileId, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id domain.FileId
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = s.saveFile(ctx, tx, file)
		return err
	})
	return id, err
}

func (s *Storage) FilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.filesByBoardId(ctx, s.db, bno)
}

// FilesByWriter returns the attachments of every post written by writer.
func (s *Storage) FilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	files := []domain.File{}
	err := s.db.SelectContext(ctx, &files, `
		SELECT f.id, f.board_id, f.original_name, f.stored_name, f.file_path, f.content_type,
		       f.size_bytes, f.image_width, f.image_height, f.created_at
		FROM files f
		JOIN boards b ON b.bno = f.board_id
		WHERE b.writer = $1
		ORDER BY f.id`, writer)
	if err != nil {
		return nil, fmt.Errorf("failed to query files by writer: %w", err)
	}
	return files, nil
}

func (s *Storage) File(ctx context.Context, id domain.FileId) (domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.file(ctx, s.db, id)
}

// DeleteFilesByBoardId removes every file row of a post in one statement.
func (s *Storage) DeleteFilesByBoardId(ctx context.Context, bno domain.PostId) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM files WHERE board_id = $1", bno)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
		return nil
	})
}

func (s *Storage) saveFile(ctx context.Context, q Querier, file domain.File) (domain.FileId, error) {
	var id domain.FileId
	err := q.QueryRowxContext(ctx, `
		INSERT INTO files(board_id, original_name, stored_name, file_path, content_type, size_bytes, image_width, image_height)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		file.BoardId, file.OriginalName, file.StoredName, file.FilePath,
		file.ContentType, file.SizeBytes, file.ImageWidth, file.ImageHeight,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert file: %w", err)
	}
	return id, nil
}

func (s *Storage) filesByBoardId(ctx context.Context, q Querier, bno domain.PostId) ([]domain.File, error) {
	files := []domain.File{}
	err := q.SelectContext(ctx, &files, "SELECT "+fileColumns+" FROM files WHERE board_id = $1 ORDER BY id", bno)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	return files, nil
}

func (s *Storage) file(ctx context.Context, q Querier, id domain.FileId) (domain.File, error) {
	var file domain.File
	err := q.GetContext(ctx, &file, "SELECT "+fileColumns+" FROM files WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.File{}, internal_errors.NotFound("File not found")
		}
		return domain.File{}, fmt.Errorf("failed to query file: %w", err)
	}
	return file, nil
}

// StoredNames lists the stored name of every recorded attachment.
func (s *Storage) StoredNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	names := []string{}
	if err := s.db.SelectContext(ctx, &names, "SELECT stored_name FROM files"); err != nil {
		return nil, fmt.Errorf("failed to query stored names: %w", err)
	}
	return names, nil
}
