package handler

import (
	"net/http"

	"github.com/itchan-dev/itboard/internal/domain"
)

type indexPage struct {
	Recent []domain.Post
}

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.boards.Recent(r.Context(), h.Public.RecentPostsLimit)
	if err != nil {
		h.handleError(w, r, err, "/")
		return
	}
	h.renderTemplate(w, r, "index.html", indexPage{Recent: posts})
}
