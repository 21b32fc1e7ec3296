package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/middleware"
	"github.com/itchan-dev/itboard/internal/middleware/metrics"
	"github.com/itchan-dev/itboard/internal/validation"
)

type boardListPage struct {
	Posts  []domain.Post
	Search domain.Search
}

type boardDetailPage struct {
	Post    domain.Post
	Content template.HTML
	Files   []domain.File
	IsOwner bool
}

// boardFormPage backs both the write and the modify form.
type boardFormPage struct {
	Post  domain.Post
	Files []domain.File
}

func postURL(bno domain.PostId) string {
	return fmt.Sprintf("/boards/%d", bno)
}

// parseBno reads the {bno} url parameter. Anything that is not a positive
// integer is treated as a missing post.
func parseBno(r *http.Request) (domain.PostId, bool) {
	bno, err := strconv.ParseInt(chi.URLParam(r, "bno"), 10, 64)
	if err != nil || bno <= 0 {
		return 0, false
	}
	return bno, true
}

func (h *Handler) BoardListGetHandler(w http.ResponseWriter, r *http.Request) {
	searchType := r.URL.Query().Get("searchType")
	keyword := r.URL.Query().Get("keyword")

	posts, err := h.boards.FindAll(r.Context(), searchType, keyword)
	if err != nil {
		h.handleError(w, r, err, "/")
		return
	}

	search := domain.Search{Type: domain.ParseSearchType(searchType), Keyword: keyword}
	if searchType != "" || keyword != "" {
		h.rememberSearch(w, search)
	}

	h.renderTemplate(w, r, "boards_list.html", boardListPage{Posts: posts, Search: search})
}

func (h *Handler) BoardDetailGetHandler(w http.ResponseWriter, r *http.Request) {
	bno, ok := parseBno(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	post, err := h.boards.FindById(r.Context(), bno)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}
	files, err := h.files.FindFilesByBoardId(r.Context(), bno)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}

	user := middleware.GetUserFromContext(r)
	h.renderTemplate(w, r, "boards_detail.html", boardDetailPage{
		Post:    post,
		Content: template.HTML(h.boards.Render(post)),
		Files:   files,
		IsOwner: user != nil && user.Id == post.Writer,
	})
}

func (h *Handler) BoardWriteGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "boards_write.html", boardFormPage{})
}

func (h *Handler) BoardWritePostHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	// The writer always comes from the session, never from the form.
	post := domain.Post{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Writer:  user.Id,
	}

	bno, err := h.boards.AddContent(r.Context(), post)
	if err != nil {
		if internal_errors.IsUserFacing(err) {
			h.renderTemplateWithError(w, r, "boards_write.html", boardFormPage{Post: post}, err.Error())
			return
		}
		h.handleError(w, r, err, "/boards/write")
		return
	}

	if !h.saveAttachment(w, r, bno) {
		return
	}

	h.flash.Redirect(w, r, "/boards", flash.SuccessCookie, "Post created")
}

func (h *Handler) BoardModifyGetHandler(w http.ResponseWriter, r *http.Request) {
	bno, ok := parseBno(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	post, err := h.boards.FindById(r.Context(), bno)
	if err != nil {
		h.handleError(w, r, err, "/boards")
		return
	}
	user := middleware.GetUserFromContext(r)
	if user == nil || user.Id != post.Writer {
		h.flash.Redirect(w, r, postURL(bno), flash.ErrorCookie, internal_errors.ErrForbidden.Message)
		return
	}

	files, err := h.files.FindFilesByBoardId(r.Context(), bno)
	if err != nil {
		h.handleError(w, r, err, postURL(bno))
		return
	}

	h.renderTemplate(w, r, "boards_modify.html", boardFormPage{Post: post, Files: files})
}

func (h *Handler) BoardModifyPostHandler(w http.ResponseWriter, r *http.Request) {
	bno, ok := parseBno(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	post := domain.Post{
		Bno:     bno,
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	if err := h.boards.ContentModify(r.Context(), *user, post); err != nil {
		if errors.Is(err, internal_errors.ErrForbidden) {
			h.flash.Redirect(w, r, postURL(bno), flash.ErrorCookie, err.Error())
			return
		}
		h.handleError(w, r, err, postURL(bno)+"/contentModify")
		return
	}

	if !h.saveAttachment(w, r, bno) {
		return
	}

	h.flash.Redirect(w, r, "/boards", flash.SuccessCookie, "Post updated")
}

func (h *Handler) BoardDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	bno, ok := parseBno(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	if err := h.boards.ContentDelete(r.Context(), *user, bno); err != nil {
		h.handleError(w, r, err, postURL(bno))
		return
	}

	h.flash.Redirect(w, r, "/boards", flash.SuccessCookie, "Post deleted")
}

// BoardDeleteGetHandler exists so a bookmarked delete link does not 404.
func (h *Handler) BoardDeleteGetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	h.renderError(w, r, http.StatusMethodNotAllowed, "Posts can only be deleted from the post page")
}

// saveAttachment stores the optional "file" part for post bno. On failure it
// has already answered the request and returns false. The post itself is kept:
// a rejected file sends the user to it with the reason, a disk failure is a 500.
func (h *Handler) saveAttachment(w http.ResponseWriter, r *http.Request, bno domain.PostId) bool {
	upload, closer, err := validation.FormUpload(r, "file")
	if err != nil {
		logger.Log.Warn("failed to read attachment", "bno", bno, "error", err)
		h.flash.Redirect(w, r, postURL(bno), flash.ErrorCookie, "The attachment could not be read")
		return false
	}
	if closer != nil {
		defer closer.Close()
	}

	saved, err := h.files.SaveFile(r.Context(), bno, upload)
	if err != nil {
		h.handleError(w, r, err, postURL(bno))
		return false
	}
	if saved != nil {
		metrics.ObserveAttachment(saved.SizeBytes)
	}
	return true
}
