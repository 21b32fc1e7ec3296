package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/jmoiron/sqlx"
)

const postColumns = "bno, title, content, writer, created_at, updated_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreatePost inserts a post and returns its generated bno.
func (s *Storage) CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var bno domain.PostId
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		bno, err = s.createPost(ctx, tx, post)
		return err
	})
	return bno, err
}

func (s *Storage) Post(ctx context.Context, bno domain.PostId) (domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.post(ctx, s.db, bno)
}

// Posts lists posts newest first, filtered by search when its keyword is set.
// limit <= 0 means no limit.
func (s *Storage) Posts(ctx context.Context, search domain.Search, limit int) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.posts(ctx, s.db, search, limit)
}

func (s *Storage) UpdatePost(ctx context.Context, post domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.updatePost(ctx, tx, post)
	})
}

// DeletePost removes a post; file rows go with it through ON DELETE CASCADE.
func (s *Storage) DeletePost(ctx context.Context, bno domain.PostId) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.deletePost(ctx, tx, bno)
	})
}

func (s *Storage) createPost(ctx context.Context, q Querier, post domain.Post) (domain.PostId, error) {
	var bno domain.PostId
	err := q.QueryRowxContext(ctx,
		"INSERT INTO boards(title, content, writer) VALUES($1, $2, $3) RETURNING bno",
		post.Title, post.Content, post.Writer).Scan(&bno)
	if err != nil {
		return -1, fmt.Errorf("failed to insert post: %w", err)
	}
	return bno, nil
}

func (s *Storage) post(ctx context.Context, q Querier, bno domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := q.GetContext(ctx, &post, "SELECT "+postColumns+" FROM boards WHERE bno = $1", bno)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func searchCondition(search domain.Search) (string, []any) {
	if search.Keyword == "" {
		return "", nil
	}
	pattern := "%" + likeEscaper.Replace(search.Keyword) + "%"

	var where string
	switch search.Type {
	case domain.SearchContent:
		where = "content ILIKE $1"
	case domain.SearchWriter:
		where = "writer ILIKE $1"
	case domain.SearchTitleContent:
		where = "(title ILIKE $1 OR content ILIKE $1)"
	default:
		where = "title ILIKE $1"
	}
	return " WHERE " + where, []any{pattern}
}

func (s *Storage) posts(ctx context.Context, q Querier, search domain.Search, limit int) ([]domain.Post, error) {
	where, args := searchCondition(search)
	query := "SELECT " + postColumns + " FROM boards" + where + " ORDER BY bno DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	posts := []domain.Post{}
	if err := q.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) updatePost(ctx context.Context, q Querier, post domain.Post) error {
	result, err := q.ExecContext(ctx,
		"UPDATE boards SET title = $1, content = $2, updated_at = now() WHERE bno = $3",
		post.Title, post.Content, post.Bno)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return checkAffected(result, internal_errors.NotFound("Post not found for update"))
}

func (s *Storage) deletePost(ctx context.Context, q Querier, bno domain.PostId) error {
	result, err := q.ExecContext(ctx, "DELETE FROM boards WHERE bno = $1", bno)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return checkAffected(result, internal_errors.NotFound("Post not found for deletion"))
}
