// Routes:
//
//	POST /user/register                # register (public)
//	POST /user/login                   # login (public)
//	POST /user/logout                  # revoke session (auth)
//	GET  /api/mappings                 # list mappings (auth)
//	GET  /api/mappings/search          # search mappings (auth)
//	POST /api/mappings                 # create mapping (auth)
//	GET  /api/mappings/{id}            # get mapping (auth)
//	PUT  /api/mappings/{id}            # update mapping (auth)
//	DELETE /api/mappings/{id}          # delete mapping + details (auth)
//	PUT  /api/mappings/{id}/pinelabs   # reconcile detail set (auth)
//	GET  /api/pinelabs                 # list detail rows (auth)
//	DELETE /api/pinelabs/{id}          # delete one detail row (auth)
//	GET  /api/export/pinelabs          # CSV export (auth)
package api

import (
	exportAPI "finmap/internal/app/server/api/http/export"
	healthAPI "finmap/internal/app/server/api/http/health"
	mappingAPI "finmap/internal/app/server/api/http/mapping"
	"finmap/internal/app/server/api/http/middleware"
	"finmap/internal/app/server/api/http/middleware/auth"
	"finmap/internal/app/server/api/http/middleware/logger"
	pinelabsAPI "finmap/internal/app/server/api/http/pinelabs"
	userAPI "finmap/internal/app/server/api/http/user"
	"finmap/internal/domain/mapping"
	"finmap/internal/domain/pinelabs"
	"finmap/internal/domain/session"
	"finmap/internal/domain/user"
	"finmap/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health   *healthAPI.Handler
	User     *userAPI.Handler
	Mapping  *mappingAPI.Handler
	PineLabs *pinelabsAPI.Handler
	Export   *exportAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Finmap API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Mapping.SetupRoutes(API)
	h.PineLabs.SetupRoutes(API)
	h.Export.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	pool := storage.Pool()

	sessionRepo := postgres.NewSessionRepository(pool, log)
	sessionService := session.NewService(sessionRepo, log)

	userRepo := postgres.NewUserRepository(pool, log)
	userService := user.NewService(userRepo, user.NewCredentialValidator(), log)

	authMW := auth.New(sessionService, userService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	mappingRepo := postgres.NewMappingRepository(pool, log)
	detailRepo := postgres.NewPineLabsRepository(pool, log)

	mappingService := mapping.NewService(mappingRepo, detailRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	mappingHandler := mappingAPI.NewHandler(mappingService, log, middlewares.GetAllAndClear())

	detailService := pinelabs.NewService(detailRepo, mappingRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	pinelabsHandler := pinelabsAPI.NewHandler(detailService, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	exportHandler := exportAPI.NewHandler(detailService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		User:     userHandler,
		Mapping:  mappingHandler,
		PineLabs: pinelabsHandler,
		Export:   exportHandler,
	}
}
