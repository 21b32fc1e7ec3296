package service

import (
	"context"
	"io"
	"os"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
)

// --- Mocks ---

type MockUserStorage struct {
	SaveUserFunc   func(ctx context.Context, user domain.User) error
	UserFunc       func(ctx context.Context, id domain.UserId) (domain.User, error)
	UpdateUserFunc func(ctx context.Context, user domain.User) error
	DeleteUserFunc func(ctx context.Context, id domain.UserId) error
}

func (m *MockUserStorage) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, id)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockUserStorage) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStorage) DeleteUser(ctx context.Context, id domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

type MockUserFiles struct {
	FindFilesByWriterFunc func(ctx context.Context, writer domain.UserId) ([]domain.File, error)
	RemoveFromDiskFunc    func(files []domain.File)
}

func (m *MockUserFiles) FindFilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	if m.FindFilesByWriterFunc != nil {
		return m.FindFilesByWriterFunc(ctx, writer)
	}
	return nil, nil
}

func (m *MockUserFiles) RemoveFromDisk(files []domain.File) {
	if m.RemoveFromDiskFunc != nil {
		m.RemoveFromDiskFunc(files)
	}
}

type MockFileStorage struct {
	SaveFileFunc             func(ctx context.Context, file domain.File) (domain.FileId, error)
	FilesByBoardIdFunc       func(ctx context.Context, bno domain.PostId) ([]domain.File, error)
	FilesByWriterFunc        func(ctx context.Context, writer domain.UserId) ([]domain.File, error)
	FileFunc                 func(ctx context.Context, id domain.FileId) (domain.File, error)
	DeleteFilesByBoardIdFunc func(ctx context.Context, bno domain.PostId) error
}

func (m *MockFileStorage) SaveFile(ctx context.Context, file domain.File) (domain.FileId, error) {
	if m.SaveFileFunc != nil {
		return m.SaveFileFunc(ctx, file)
	}
	return 1, nil
}

func (m *MockFileStorage) FilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error) {
	if m.FilesByBoardIdFunc != nil {
		return m.FilesByBoardIdFunc(ctx, bno)
	}
	return nil, nil
}

func (m *MockFileStorage) FilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	if m.FilesByWriterFunc != nil {
		return m.FilesByWriterFunc(ctx, writer)
	}
	return nil, nil
}

func (m *MockFileStorage) File(ctx context.Context, id domain.FileId) (domain.File, error) {
	if m.FileFunc != nil {
		return m.FileFunc(ctx, id)
	}
	return domain.File{}, internal_errors.NotFound("File not found")
}

func (m *MockFileStorage) DeleteFilesByBoardId(ctx context.Context, bno domain.PostId) error {
	if m.DeleteFilesByBoardIdFunc != nil {
		return m.DeleteFilesByBoardIdFunc(ctx, bno)
	}
	return nil
}

type MockMediaStorage struct {
	SaveFunc       func(data io.Reader, storedName string) (string, error)
	OpenFunc       func(storedName string) (*os.File, error)
	OpenPathFunc   func(fullPath string) (*os.File, error)
	DeletePathFunc func(fullPath string) error
}

func (m *MockMediaStorage) Save(data io.Reader, storedName string) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(data, storedName)
	}
	return "/media/" + storedName, nil
}

func (m *MockMediaStorage) Open(storedName string) (*os.File, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(storedName)
	}
	return nil, internal_errors.NotFound("File not found")
}

func (m *MockMediaStorage) OpenPath(fullPath string) (*os.File, error) {
	if m.OpenPathFunc != nil {
		return m.OpenPathFunc(fullPath)
	}
	return nil, internal_errors.NotFound("File not found")
}

func (m *MockMediaStorage) DeletePath(fullPath string) error {
	if m.DeletePathFunc != nil {
		return m.DeletePathFunc(fullPath)
	}
	return nil
}

type MockBoardStorage struct {
	CreatePostFunc func(ctx context.Context, post domain.Post) (domain.PostId, error)
	PostFunc       func(ctx context.Context, bno domain.PostId) (domain.Post, error)
	PostsFunc      func(ctx context.Context, search domain.Search, limit int) ([]domain.Post, error)
	UpdatePostFunc func(ctx context.Context, post domain.Post) error
	DeletePostFunc func(ctx context.Context, bno domain.PostId) error
}

func (m *MockBoardStorage) CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	return 1, nil
}

func (m *MockBoardStorage) Post(ctx context.Context, bno domain.PostId) (domain.Post, error) {
	if m.PostFunc != nil {
		return m.PostFunc(ctx, bno)
	}
	return domain.Post{}, internal_errors.NotFound("Post not found")
}

func (m *MockBoardStorage) Posts(ctx context.Context, search domain.Search, limit int) ([]domain.Post, error) {
	if m.PostsFunc != nil {
		return m.PostsFunc(ctx, search, limit)
	}
	return nil, nil
}

func (m *MockBoardStorage) UpdatePost(ctx context.Context, post domain.Post) error {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(ctx, post)
	}
	return nil
}

func (m *MockBoardStorage) DeletePost(ctx context.Context, bno domain.PostId) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, bno)
	}
	return nil
}

type MockBoardFiles struct {
	DeleteFileFunc func(ctx context.Context, bno domain.PostId) error
}

func (m *MockBoardFiles) DeleteFile(ctx context.Context, bno domain.PostId) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, bno)
	}
	return nil
}

type MockRenderer struct{}

func (m *MockRenderer) Render(text string) string {
	return "<p>" + text + "</p>"
}

type MockSessionStore struct {
	CreateFunc func(ctx context.Context, userId domain.UserId) (string, error)
	UserIdFunc func(ctx context.Context, sid string) (domain.UserId, bool, error)
	DeleteFunc func(ctx context.Context, sid string) error
}

func (m *MockSessionStore) Create(ctx context.Context, userId domain.UserId) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userId)
	}
	return "sid", nil
}

func (m *MockSessionStore) UserId(ctx context.Context, sid string) (domain.UserId, bool, error) {
	if m.UserIdFunc != nil {
		return m.UserIdFunc(ctx, sid)
	}
	return "", false, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, sid string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sid)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc    func(sid string) (string, error)
	DecodeTokenFunc func(token string) (string, error)
}

func (m *MockJwt) NewToken(sid string) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(sid)
	}
	return "token:" + sid, nil
}

func (m *MockJwt) DecodeToken(token string) (string, error) {
	if m.DecodeTokenFunc != nil {
		return m.DecodeTokenFunc(token)
	}
	return "", internal_errors.ErrUnauthorized
}

type MockUserFinder struct {
	FindByIdFunc func(ctx context.Context, id domain.UserId) (domain.User, error)
}

func (m *MockUserFinder) FindById(ctx context.Context, id domain.UserId) (domain.User, error) {
	if m.FindByIdFunc != nil {
		return m.FindByIdFunc(ctx, id)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}
