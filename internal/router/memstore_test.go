package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
)

// memStore stands in for postgres: same contracts as the pg mapper,
// including the foreign key cascades.
type memStore struct {
	mu     sync.Mutex
	users  map[domain.UserId]domain.User
	posts  map[domain.PostId]domain.Post
	files  map[domain.FileId]domain.File
	nextPo domain.PostId
	nextFi domain.FileId
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[domain.UserId]domain.User),
		posts: make(map[domain.PostId]domain.Post),
		files: make(map[domain.FileId]domain.File),
	}
}

func (m *memStore) SaveUser(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Id]; ok {
		return internal_errors.ErrDuplicateId
	}
	user.CreatedAt = time.Now()
	m.users[user.Id] = user
	return nil
}

func (m *memStore) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, internal_errors.NotFound("User not found")
	}
	return user, nil
}

func (m *memStore) UpdateUser(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[user.Id]
	if !ok {
		return internal_errors.NotFound("User not found")
	}
	user.CreatedAt = current.CreatedAt
	m.users[user.Id] = user
	return nil
}

func (m *memStore) DeleteUser(ctx context.Context, id domain.UserId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return internal_errors.NotFound("User not found")
	}
	delete(m.users, id)
	for bno, post := range m.posts {
		if post.Writer == id {
			m.deletePostLocked(bno)
		}
	}
	return nil
}

func (m *memStore) CreatePost(ctx context.Context, post domain.Post) (domain.PostId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPo++
	post.Bno = m.nextPo
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	m.posts[post.Bno] = post
	return post.Bno, nil
}

func (m *memStore) Post(ctx context.Context, bno domain.PostId) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[bno]
	if !ok {
		return domain.Post{}, internal_errors.NotFound("Post not found")
	}
	return post, nil
}

func (m *memStore) Posts(ctx context.Context, search domain.Search, limit int) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyword := strings.ToLower(search.Keyword)
	var posts []domain.Post
	for _, post := range m.posts {
		if keyword != "" && !matches(post, search.Type, keyword) {
			continue
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Bno > posts[j].Bno })
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func matches(post domain.Post, searchType domain.SearchType, keyword string) bool {
	title := strings.Contains(strings.ToLower(post.Title), keyword)
	content := strings.Contains(strings.ToLower(post.Content), keyword)
	switch searchType {
	case domain.SearchContent:
		return content
	case domain.SearchWriter:
		return strings.Contains(strings.ToLower(post.Writer), keyword)
	case domain.SearchTitleContent:
		return title || content
	default:
		return title
	}
}

func (m *memStore) UpdatePost(ctx context.Context, post domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.posts[post.Bno]
	if !ok {
		return internal_errors.NotFound("Post not found")
	}
	current.Title = post.Title
	current.Content = post.Content
	current.UpdatedAt = time.Now()
	m.posts[post.Bno] = current
	return nil
}

func (m *memStore) DeletePost(ctx context.Context, bno domain.PostId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[bno]; !ok {
		return internal_errors.NotFound("Post not found")
	}
	m.deletePostLocked(bno)
	return nil
}

func (m *memStore) deletePostLocked(bno domain.PostId) {
	delete(m.posts, bno)
	for id, file := range m.files {
		if file.BoardId == bno {
			delete(m.files, id)
		}
	}
}

func (m *memStore) SaveFile(ctx context.Context, file domain.File) (domain.FileId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[file.BoardId]; !ok {
		return 0, internal_errors.NotFound("Post not found")
	}
	m.nextFi++
	file.Id = m.nextFi
	file.CreatedAt = time.Now()
	m.files[file.Id] = file
	return file.Id, nil
}

func (m *memStore) FilesByBoardId(ctx context.Context, bno domain.PostId) ([]domain.File, error) {
	return m.filterFiles(func(f domain.File) bool { return f.BoardId == bno }), nil
}

func (m *memStore) FilesByWriter(ctx context.Context, writer domain.UserId) ([]domain.File, error) {
	m.mu.Lock()
	posts := make(map[domain.PostId]bool)
	for bno, post := range m.posts {
		posts[bno] = post.Writer == writer
	}
	m.mu.Unlock()
	return m.filterFiles(func(f domain.File) bool { return posts[f.BoardId] }), nil
}

func (m *memStore) File(ctx context.Context, id domain.FileId) (domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[id]
	if !ok {
		return domain.File{}, internal_errors.NotFound("File not found")
	}
	return file, nil
}

func (m *memStore) DeleteFilesByBoardId(ctx context.Context, bno domain.PostId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, file := range m.files {
		if file.BoardId == bno {
			delete(m.files, id)
		}
	}
	return nil
}

func (m *memStore) filterFiles(keep func(domain.File) bool) []domain.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	var files []domain.File
	for _, file := range m.files {
		if keep(file) {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Id < files[j].Id })
	return files
}
