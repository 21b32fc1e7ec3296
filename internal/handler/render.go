package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/itchan-dev/itboard/internal/domain"
	internal_errors "github.com/itchan-dev/itboard/internal/errors"
	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/middleware"
)

// CommonTemplateData is available to every page as .Common.
type CommonTemplateData struct {
	Error      string
	Success    string
	User       *domain.User
	CSRFToken  string
	LastSearch domain.Search
	Validation ValidationData
}

// ValidationData mirrors the server-side limits so forms can hint them.
type ValidationData struct {
	IdMinLen        int
	IdMaxLen        int
	PasswordMinLen  int
	TitleMaxLen     int
	ContentMaxLen   int
	MaxUploadSizeMB float64
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

type errorPage struct {
	StatusCode int
	StatusText string
	Message    string
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) CommonTemplateData {
	return CommonTemplateData{
		Error:      h.flash.Pop(w, r, flash.ErrorCookie),
		Success:    h.flash.Pop(w, r, flash.SuccessCookie),
		User:       middleware.GetUserFromContext(r),
		CSRFToken:  middleware.GetCSRFTokenFromContext(r),
		LastSearch: lastSearch(r),
		Validation: ValidationData{
			IdMinLen:        domain.IdMinLen,
			IdMaxLen:        domain.IdMaxLen,
			PasswordMinLen:  domain.PasswordMinLen,
			TitleMaxLen:     domain.TitleMaxLen,
			ContentMaxLen:   domain.ContentMaxLen,
			MaxUploadSizeMB: float64(h.Public.MaxUploadSizeBytes) / (1024 * 1024),
		},
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateStatus(w, r, http.StatusOK, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderTemplateStatus(w, r, http.StatusOK, name, data, errMsg)
}

func (h *Handler) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		logger.Log.Error("template not found", "template", name)
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.renderTemplateStatus(w, r, status, "error.html", errorPage{
		StatusCode: status,
		StatusText: http.StatusText(status),
		Message:    msg,
	}, "")
}

// handleError maps a service error onto a response: not-found renders the
// 404 page, user-facing errors go back to redirectTo as a flash message and
// anything else is logged and rendered as 500.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, redirectTo string) {
	switch {
	case internal_errors.IsNotFound(err):
		h.renderError(w, r, http.StatusNotFound, err.Error())
	case internal_errors.IsUserFacing(err):
		h.flash.Redirect(w, r, redirectTo, flash.ErrorCookie, err.Error())
	default:
		logger.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}
