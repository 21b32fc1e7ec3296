package handler

import (
	"context"
	"html/template"

	"github.com/itchan-dev/itboard/internal/config"
	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public

	users    service.UserService
	boards   service.BoardService
	files    service.FileService
	sessions service.SessionService
	flash    *flash.Flash
	health   []HealthChecker
}

// Services groups what the controllers call into.
type Services struct {
	Users    service.UserService
	Boards   service.BoardService
	Files    service.FileService
	Sessions service.SessionService
}

func New(templates map[string]*template.Template, publicCfg config.Public, services Services, health ...HealthChecker) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		users:     services.Users,
		boards:    services.Boards,
		files:     services.Files,
		sessions:  services.Sessions,
		flash:     flash.New(publicCfg.SecureCookies),
		health:    health,
	}
}

// Flash is shared with the middleware so both write the same cookies.
func (h *Handler) Flash() *flash.Flash {
	return h.flash
}
