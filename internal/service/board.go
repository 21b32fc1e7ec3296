package service

import (
	"context"
	"strings"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/validation"
)

// to mock service in tests
type BoardService interface {
	FindAll(ctx context.Context, searchType, keyword string) ([]domain.Post, error)
	Recent(ctx context.Context, limit int) ([]domain.Post, error)
	FindById(ctx context.Context, bno domain.PostId) (domain.Post, error)
	AddContent(ctx context.Context, post domain.Post) (domain.PostId, error)
	ContentModify(ctx context.Context, actor domain.User, post domain.Post) error
	ContentDelete(ctx context.Context, actor domain.User, bno domain.PostId) error
	Render(post domain.Post) string
}

type Board struct {
	storage  BoardStorage
	files    BoardFiles
	renderer Renderer
}

type BoardStorage interface {
	CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error)
	Post(ctx context.Context, bno domain.PostId) (domain.Post, error)
	Posts(ctx context.Context, search domain.Search, limit int) ([]domain.Post, error)
	UpdatePost(ctx context.Context, post domain.Post) error
	DeletePost(ctx context.Context, bno domain.PostId) error
}

// BoardFiles is the part of the file service post deletion needs.
type BoardFiles interface {
	DeleteFile(ctx context.Context, bno domain.PostId) error
}

type Renderer interface {
	Render(text string) string
}

func NewBoard(storage BoardStorage, files BoardFiles, renderer Renderer) *Board {
	return &Board{storage: storage, files: files, renderer: renderer}
}

// FindAll lists posts newest first. An empty keyword lists everything and an
// unknown search type searches titles.
func (b *Board) FindAll(ctx context.Context, searchType, keyword string) ([]domain.Post, error) {
	search := domain.Search{
		Type:    domain.ParseSearchType(searchType),
		Keyword: strings.TrimSpace(keyword),
	}
	return b.storage.Posts(ctx, search, 0)
}

func (b *Board) Recent(ctx context.Context, limit int) ([]domain.Post, error) {
	return b.storage.Posts(ctx, domain.Search{}, max(1, limit))
}

func (b *Board) FindById(ctx context.Context, bno domain.PostId) (domain.Post, error) {
	return b.storage.Post(ctx, bno)
}

// AddContent stores a new post and returns its number. post.Writer must
// already be the logged-in user.
func (b *Board) AddContent(ctx context.Context, post domain.Post) (domain.PostId, error) {
	if post.Writer == "" {
		return 0, internal_errors.ErrUnauthorized
	}
	if err := validation.Struct(domain.PostData{Title: post.Title, Content: post.Content}); err != nil {
		return 0, err
	}

	bno, err := b.storage.CreatePost(ctx, post)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("post created", "bno", bno, "writer", post.Writer)
	return bno, nil
}

// ContentModify updates title and content. Only the writer may do it.
func (b *Board) ContentModify(ctx context.Context, actor domain.User, post domain.Post) error {
	if err := validation.Struct(domain.PostData{Title: post.Title, Content: post.Content}); err != nil {
		return err
	}
	if _, err := b.ownedPost(ctx, actor, post.Bno); err != nil {
		return err
	}

	return b.storage.UpdatePost(ctx, post)
}

// ContentDelete removes a post together with its attachments. Only the
// writer may do it.
func (b *Board) ContentDelete(ctx context.Context, actor domain.User, bno domain.PostId) error {
	if _, err := b.ownedPost(ctx, actor, bno); err != nil {
		return err
	}

	if err := b.files.DeleteFile(ctx, bno); err != nil {
		return err
	}
	if err := b.storage.DeletePost(ctx, bno); err != nil {
		return err
	}
	logger.Log.Info("post deleted", "bno", bno, "by", actor.Id)
	return nil
}

func (b *Board) Render(post domain.Post) string {
	return b.renderer.Render(post.Content)
}

func (b *Board) ownedPost(ctx context.Context, actor domain.User, bno domain.PostId) (domain.Post, error) {
	post, err := b.storage.Post(ctx, bno)
	if err != nil {
		return domain.Post{}, err
	}
	if actor.Id == "" || actor.Id != post.Writer {
		return domain.Post{}, internal_errors.ErrForbidden
	}
	return post, nil
}
