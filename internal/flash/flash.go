// Package flash carries one-shot messages across a redirect in cookies.
package flash

import (
	"encoding/base64"
	"net/http"
)

const (
	ErrorCookie   = "flash_error"
	SuccessCookie = "flash_success"

	maxAge = 300 // enough time for the redirect
)

type Flash struct {
	secureCookies bool
}

func New(secureCookies bool) *Flash {
	return &Flash{secureCookies: secureCookies}
}

// Set stores msg in cookie name. The value is base64 so any text survives.
func (f *Flash) Set(w http.ResponseWriter, name, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.StdEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   f.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (f *Flash) Error(w http.ResponseWriter, msg string) {
	f.Set(w, ErrorCookie, msg)
}

func (f *Flash) Success(w http.ResponseWriter, msg string) {
	f.Set(w, SuccessCookie, msg)
}

// Redirect sets a flash message and answers with 303 See Other.
func (f *Flash) Redirect(w http.ResponseWriter, r *http.Request, url, name, msg string) {
	f.Set(w, name, msg)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Pop returns the message stored in cookie name and expires the cookie.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
