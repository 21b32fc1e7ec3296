package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/itchan-dev/itboard/internal/domain"
)

const (
	searchTypeCookie    = "search_type"
	searchKeywordCookie = "search_keyword"
)

// rememberSearch keeps the last search for a while so the list page and the
// header form can offer it again.
func (h *Handler) rememberSearch(w http.ResponseWriter, search domain.Search) {
	ttl := h.Public.SearchCookieTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	for name, value := range map[string]string{
		searchTypeCookie:    string(search.Type),
		searchKeywordCookie: search.Keyword,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    url.QueryEscape(value),
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   h.Public.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func lastSearch(r *http.Request) domain.Search {
	var search domain.Search
	if c, err := r.Cookie(searchTypeCookie); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil && v != "" {
			search.Type = domain.ParseSearchType(v)
		}
	}
	if c, err := r.Cookie(searchKeywordCookie); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			search.Keyword = v
		}
	}
	return search
}
