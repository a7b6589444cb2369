package setup

import (
	"github.com/talkboard-dev/talkboard/internal/config"
	"github.com/talkboard-dev/talkboard/internal/handler"
	"github.com/talkboard-dev/talkboard/internal/middleware"
	"github.com/talkboard-dev/talkboard/internal/service"
	"github.com/talkboard-dev/talkboard/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Bus            *service.Bus
	Reconciler     *service.AggregateReconciler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	bus := service.NewBus(cfg.Public.EventBufferSize)

	board := service.NewBoard(storage)
	thread := service.NewThread(storage, bus)
	answer := service.NewAnswer(storage, bus)
	like := service.NewLike(storage, service.BareDirectory{})

	reconciler := service.NewAggregateReconciler(storage, cfg.Public.ReconcileEvery())

	h := handler.New(board, thread, answer, like, cfg)
	authMw := middleware.NewAuth(cfg.JwtKey())

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Bus:            bus,
		Reconciler:     reconciler,
	}, nil
}
