package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/itchan-dev/itboard/internal/config"
	"github.com/itchan-dev/itboard/internal/handler"
	"github.com/itchan-dev/itboard/internal/jwt"
	"github.com/itchan-dev/itboard/internal/markdown"
	"github.com/itchan-dev/itboard/internal/middleware"
	"github.com/itchan-dev/itboard/internal/service"
	"github.com/itchan-dev/itboard/internal/storage/fs"
	"github.com/itchan-dev/itboard/internal/storage/pg"
	"github.com/itchan-dev/itboard/internal/storage/session"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config   *config.Config
	Handler  *handler.Handler
	Auth     *middleware.Auth
	Storage  *pg.Storage
	Sessions *session.Store
	Sweeper  *service.OrphanSweeper
}

// SetupDependencies connects to postgres and redis and builds the service
// graph. The caller owns the result and must call Cleanup.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	templates, err := LoadTemplates(cfg.Public.TemplatesPath)
	if err != nil {
		return nil, err
	}

	storage, err := pg.New(ctx, cfg.PgDSN(), pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	sessionStore := session.New(session.Options{
		Addr:     cfg.Public.Redis.Addr,
		Password: cfg.Private.RedisPassword,
		DB:       cfg.Public.Redis.DB,
		TTL:      cfg.SessionTTL(),
	})
	if err := sessionStore.Ping(ctx); err != nil {
		storage.Cleanup()
		sessionStore.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	jwtSvc := jwt.New(cfg.SessionSecret(), cfg.SessionTTL())

	files := service.NewFile(storage, media)
	users := service.NewUser(storage, files)
	boards := service.NewBoard(storage, files, markdown.New())
	sessions := service.NewSession(sessionStore, jwtSvc, users)

	h := handler.New(templates, cfg.Public, handler.Services{
		Users:    users,
		Boards:   boards,
		Files:    files,
		Sessions: sessions,
	}, storage, sessionStore)

	return &Dependencies{
		Config:   cfg,
		Handler:  h,
		Auth:     middleware.NewAuth(sessions, h.Flash(), cfg.Public.SecureCookies),
		Storage:  storage,
		Sessions: sessionStore,
		Sweeper:  service.NewOrphanSweeper(storage, media, cfg.Public.OrphanGrace),
	}, nil
}

func (d *Dependencies) Cleanup() error {
	var errs []error
	if d.Sessions != nil {
		errs = append(errs, d.Sessions.Close())
	}
	if d.Storage != nil {
		errs = append(errs, d.Storage.Cleanup())
	}
	return errors.Join(errs...)
}
