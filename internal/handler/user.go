package handler

import (
	"errors"
	"net/http"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/middleware"
)

const (
	msgUnknownId     = "ID does not exist"
	msgWrongPassword = "Password does not match"
)

type loginPage struct {
	Id string
}

type signupPage struct {
	Id    string
	Name  string
	Email string
}

type profilePage struct {
	User domain.User
}

func (h *Handler) SignupGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "users_signup.html", signupPage{})
}

func (h *Handler) SignupPostHandler(w http.ResponseWriter, r *http.Request) {
	data := domain.SignUpData{
		Id:       r.FormValue("id"),
		Password: r.FormValue("password"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
	}

	if err := h.users.SignUp(r.Context(), data); err != nil {
		if errors.Is(err, internal_errors.ErrDuplicateId) {
			h.flash.Redirect(w, r, "/users/signup", flash.ErrorCookie, err.Error())
			return
		}
		if internal_errors.IsUserFacing(err) {
			h.renderTemplateWithError(w, r, "users_signup.html",
				signupPage{Id: data.Id, Name: data.Name, Email: data.Email}, err.Error())
			return
		}
		h.handleError(w, r, err, "/users/signup")
		return
	}

	h.flash.Redirect(w, r, "/users/login", flash.SuccessCookie, "Welcome! You can log in now.")
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserFromContext(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderTemplate(w, r, "users_login.html", loginPage{})
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	password := r.FormValue("password")

	user, err := h.users.Login(r.Context(), id, password)
	if err != nil {
		if errors.Is(err, internal_errors.ErrInvalidCredentials) {
			h.renderTemplateWithError(w, r, "users_login.html", loginPage{Id: id}, h.loginFailure(r, id))
			return
		}
		h.handleError(w, r, err, "/users/login")
		return
	}

	token, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		h.handleError(w, r, err, "/users/login")
		return
	}
	middleware.SetSessionCookie(w, token, h.Public.SessionTTL, h.Public.SecureCookies)

	logger.Log.Info("user logged in", "user_id", user.Id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginFailure tells an unknown id apart from a wrong password.
func (h *Handler) loginFailure(r *http.Request, id string) string {
	if _, err := h.users.FindById(r.Context(), id); internal_errors.IsNotFound(err) {
		return msgUnknownId
	}
	return msgWrongPassword
}

func (h *Handler) LogoutGetHandler(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) RemoveGetHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	if err := h.users.Remove(r.Context(), user.Id); err != nil {
		h.handleError(w, r, err, "/users/modify")
		return
	}
	h.endSession(w, r)

	logger.Log.Info("user removed", "user_id", user.Id)
	h.flash.Redirect(w, r, "/", flash.SuccessCookie, "Your account has been removed")
}

func (h *Handler) ModifyGetHandler(w http.ResponseWriter, r *http.Request) {
	current := middleware.GetUserFromContext(r)
	if current == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	user, err := h.users.FindById(r.Context(), current.Id)
	if err != nil {
		h.handleError(w, r, err, "/")
		return
	}
	h.renderTemplate(w, r, "users_modify.html", profilePage{User: user})
}

func (h *Handler) ModifyPostHandler(w http.ResponseWriter, r *http.Request) {
	current := middleware.GetUserFromContext(r)
	if current == nil {
		h.flash.Redirect(w, r, "/users/login", flash.ErrorCookie, internal_errors.ErrUnauthorized.Message)
		return
	}

	// The id comes from the session; a form field cannot retarget the update.
	data := domain.ProfileData{
		Id:       current.Id,
		Password: r.FormValue("password"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
	}
	if err := h.users.Modify(r.Context(), data); err != nil {
		h.handleError(w, r, err, "/users/modify")
		return
	}

	h.flash.Redirect(w, r, "/", flash.SuccessCookie, "Profile updated")
}

// endSession deletes the server-side session and expires the cookie.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			logger.Log.Error("failed to destroy session", "error", err)
		}
	}
	middleware.ClearSessionCookie(w, h.Public.SecureCookies)
}
