package handler

import (
	"context"
	"os"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
)

// --- Mock for HealthChecker ---

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil // Default: healthy
}

// --- Mock for UserService ---

type MockUserService struct {
	FindByIdFunc func(ctx context.Context, id domain.UserId) (domain.User, error)
	LoginFunc    func(ctx context.Context, id domain.UserId, password string) (domain.User, error)
	SignUpFunc   func(ctx context.Context, data domain.SignUpData) error
	ModifyFunc   func(ctx context.Context, data domain.ProfileData) error
	RemoveFunc   func(ctx context.Context, id domain.UserId) error
}

func (m *MockUserService) FindById(ctx context.Context, id domain.UserId) (domain.User, error) {
	if m.FindByIdFunc != nil {
		return m.FindByIdFunc(ctx, id)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockUserService) Login(ctx context.Context, id domain.UserId, password string) (domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, id, password)
	}
	return domain.User{}, internal_errors.ErrInvalidCredentials
}

func (m *MockUserService) SignUp(ctx context.Context, data domain.SignUpData) error {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, data)
	}
	return nil
}

func (m *MockUserService) Modify(ctx context.Context, data domain.ProfileData) error {
	if m.ModifyFunc != nil {
		return m.ModifyFunc(ctx, data)
	}
	return nil
}

func (m *MockUserService) Remove(ctx context.Context, id domain.UserId) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

// --- Mock for BoardService ---

type MockBoardService struct {
	FindAllFunc       func(ctx context.Context, searchType, keyword string) ([]domain.Post, error)
	RecentFunc        func(ctx context.Context, limit int) ([]domain.Post, error)
	FindByIdFunc      func(ctx context.Context, bno domain.PostId) (domain.Post, error)
	AddContentFunc    func(ctx context.Context, post domain.Post) (domain.PostId, error)
	ContentModifyFunc func(ctx context.Context, actor domain.User, post domain.Post) error
	ContentDeleteFunc func(ctx context.Context, actor domain.User, bno domain.PostId) error
}

func (m *MockBoardService) FindAll(ctx context.Context, searchType, keyword string) ([]domain.Post, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, searchType, keyword)
	}
	return nil, nil
}

func (m *MockBoardService) Recent(ctx context.Context, limit int) ([]domain.Post, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockBoardService) FindById(ctx context.Context, bno domain.PostId) (domain.Post, error) {
	if m.FindByIdFunc != nil {
		return m.FindByIdFunc(ctx, bno)
	}
	return domain.Post{}, internal_errors.NotFound("Post not found")
}

func (m *MockBoardService) AddContent(ctx context.Context, post domain.Post) (domain.PostId, error) {
	if m.AddContentFunc != nil {
		return m.AddContentFunc(ctx, post)
	}
	return 1, nil
}

func (m *MockBoardService) ContentModify(ctx context.Context, actor domain.User, post domain.Post) error {
	if m.ContentModifyFunc != nil {
		return m.ContentModifyFunc(ctx, actor, post)
	}
	return nil
}

func (m *MockBoardService) ContentDelete(ctx context.Context, actor domain.User, bno domain.PostId) error {
	if m.ContentDeleteFunc != nil {
		return m.ContentDeleteFunc(ctx, actor, bno)
	}
	return nil
}

func (m *MockBoardService) Render(post domain.Post) string {
	return "<p>" + post.Content + "</p>"
}

// --- Mock for FileService ---

type MockFileService struct {
	SaveFileFunc           func(ctx context.Context, boardId domain.PostId, upload *domain.Upload) (*domain.File, error)
	FindFilesByBoardIdFunc func(ctx context.Context, bno domain.PostId) ([]domain.File, error)
	FindByIdFunc           func(ctx context.Context, id domain.FileId) (domain.File, error)
	OpenFunc               func(file domain.File) (*os.File, error)
	OpenStoredFunc         func(storedName string) (*os.File, error)
}

func (m *MockFileService) SaveFile(ctx context.Context, boardId domain.PostId, upload *domain.Upload) (*domain.File, error) {
	if m.SaveFileFunc != nil {
		return m.SaveFileFunc(ctx, boardId, upload)
	}
	return nil, nil
}

func (m *MockFileService) FindFilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error) {
	if m.FindFilesByBoardIdFunc != nil {
		return m.FindFilesByBoardIdFunc(ctx, bno)
	}
	return nil, nil
}

func (m *MockFileService) FindFilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	return nil, nil
}

func (m *MockFileService) FindById(ctx context.Context, id domain.FileId) (domain.File, error) {
	if m.FindByIdFunc != nil {
		return m.FindByIdFunc(ctx, id)
	}
	return domain.File{}, internal_errors.NotFound("File not found")
}

func (m *MockFileService) DeleteFile(ctx context.Context, bno domain.PostId) error {
	return nil
}

func (m *MockFileService) RemoveFromDisk(files []domain.File) {}

func (m *MockFileService) Open(file domain.File) (*os.File, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(file)
	}
	return nil, internal_errors.NotFound("File not found")
}

func (m *MockFileService) OpenStored(storedName string) (*os.File, error) {
	if m.OpenStoredFunc != nil {
		return m.OpenStoredFunc(storedName)
	}
	return nil, internal_errors.NotFound("File not found")
}

// --- Mock for SessionService ---

type MockSessionService struct {
	CreateFunc  func(ctx context.Context, user domain.User) (string, error)
	ResolveFunc func(ctx context.Context, token string) (*domain.User, error)
	DestroyFunc func(ctx context.Context, token string) error
}

func (m *MockSessionService) Create(ctx context.Context, user domain.User) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return "token-" + user.Id, nil
}

func (m *MockSessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, token)
	}
	return nil, nil
}

func (m *MockSessionService) Destroy(ctx context.Context, token string) error {
	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, token)
	}
	return nil
}
