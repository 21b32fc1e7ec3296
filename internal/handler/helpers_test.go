package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/itboard/internal/config"
	"github.com/itchan-dev/itboard/internal/domain"
	"github.com/itchan-dev/itboard/internal/middleware"
	"github.com/stretchr/testify/require"
)

const commonPrefix = `ERR:{{.Common.Error}}|OK:{{.Common.Success}}|USER:{{with .Common.User}}{{.Id}}{{end}}|`

var pageBodies = map[string]string{
	"index.html":         `{{range .Data.Recent}}[{{.Title}}]{{end}}`,
	"boards_list.html":   `TYPE:{{.Data.Search.Type}}|KW:{{.Data.Search.Keyword}}|{{range .Data.Posts}}[{{.Title}}]{{end}}`,
	"boards_detail.html": `TITLE:{{.Data.Post.Title}}|BODY:{{.Data.Content}}|OWNER:{{.Data.IsOwner}}|{{range .Data.Files}}[{{.OriginalName}}]{{end}}`,
	"boards_write.html":  `TITLE:{{.Data.Post.Title}}`,
	"boards_modify.html": `TITLE:{{.Data.Post.Title}}|{{range .Data.Files}}[{{.OriginalName}}]{{end}}`,
	"users_signup.html":  `ID:{{.Data.Id}}`,
	"users_login.html":   `ID:{{.Data.Id}}`,
	"users_modify.html":  `NAME:{{.Data.User.Name}}`,
	"error.html":         `STATUS:{{.Data.StatusCode}}|MSG:{{.Data.Message}}`,
}

func testTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template, len(pageBodies))
	for name, body := range pageBodies {
		templates[name] = template.Must(template.New(name).Parse(commonPrefix + body))
	}
	return templates
}

type testDeps struct {
	users    *MockUserService
	boards   *MockBoardService
	files    *MockFileService
	sessions *MockSessionService
}

func newTestHandler(t *testing.T) (*Handler, *testDeps) {
	t.Helper()
	deps := &testDeps{
		users:    &MockUserService{},
		boards:   &MockBoardService{},
		files:    &MockFileService{},
		sessions: &MockSessionService{},
	}
	public := config.Public{
		SessionTTL:         time.Hour,
		SearchCookieTTL:    30 * time.Minute,
		MaxUploadSizeBytes: 1 << 20,
		RecentPostsLimit:   5,
	}
	h := New(testTemplates(), public, Services{
		Users:    deps.users,
		Boards:   deps.boards,
		Files:    deps.files,
		Sessions: deps.sessions,
	})
	return h, deps
}

func asUser(r *http.Request, id domain.UserId) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), &domain.User{Id: id, Name: "Name " + id}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a parsed multipart post, the way it looks after
// the CSRF middleware has read it.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req
}

// cookieValue returns the value of the named cookie set on the response.
func cookieValue(rr *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func flashValue(t *testing.T, rr *httptest.ResponseRecorder, name string) string {
	t.Helper()
	raw, ok := cookieValue(rr, name)
	if !ok {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	require.NoError(t, err)
	return string(decoded)
}
