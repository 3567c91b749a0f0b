package routes

import (
	"database/sql"
	"net/http"

	"github.com/evn/shiftpass_backend/config"
	"github.com/evn/shiftpass_backend/internal/handlers"
	shiftHandlers "github.com/evn/shiftpass_backend/internal/handlers/shift"
	shiftPassHandlers "github.com/evn/shiftpass_backend/internal/handlers/shiftpass"
	"github.com/evn/shiftpass_backend/internal/middleware"
	"github.com/evn/shiftpass_backend/internal/pkg/response"
	"github.com/evn/shiftpass_backend/internal/repositories"
	"github.com/evn/shiftpass_backend/internal/services/directory"
	shiftService "github.com/evn/shiftpass_backend/internal/services/shift"
	shiftPassService "github.com/evn/shiftpass_backend/internal/services/shiftpass"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

// Setup инициализирует и возвращает настроенный маршрутизатор.
// redisClient может быть nil: тогда справочник сотрудников не кэшируется.
func Setup(cfg *config.Config, database *sql.DB, redisClient *redis.Client) *chi.Mux {
	jwtAuth := jwtauth.New("HS256", []byte(cfg.JwtSecret), nil)

	store := repositories.NewStore(database)
	workers := directory.NewCachedWorkerDirectory(store.Users, redisClient, cfg.WorkerCacheTTL)

	passSvc := shiftPassService.NewService(store, workers, store.Locations, cfg.TxTimeout)
	shiftSvc := shiftService.NewService(store, workers, store.Locations)

	passHandler := shiftPassHandlers.NewShiftPassHandler(passSvc)
	shiftHandler := shiftHandlers.NewShiftHandler(shiftSvc)

	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(jwtauth.Verifier(jwtAuth))
	router.Use(middleware.AddUserEmailToContext())

	// Публичные маршруты
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Authenticator(jwtAuth))
		r.Use(middleware.RequireUserEmail())

		r.Route("/api/shifts/pass", func(r chi.Router) {
			r.Post("/", passHandler.CreateShiftPass)
			r.Get("/offered", passHandler.GetOfferedShiftPasses)
			r.Get("/created", passHandler.GetCreatedShiftPasses)
			r.Get("/export", passHandler.ExportShiftPasses)
			r.Get("/{id}", passHandler.GetShiftPass)
			r.Post("/{id}/accept", passHandler.AcceptShiftPass)
			r.Delete("/{id}", passHandler.CancelShiftPass)
		})

		r.Get("/api/shifts", shiftHandler.GetShifts)
		r.Post("/api/shifts", shiftHandler.CreateShift)
		r.Put("/api/shifts/{id}", shiftHandler.UpdateShift)
		r.Delete("/api/shifts/{id}", shiftHandler.DeleteShift)

		r.Get("/api/locations", shiftHandler.GetLocations)

		r.Get("/api/profile", handlers.GetProfileHandler(workers))
		r.Get("/api/users", handlers.ListUsersHandler(store.Users))
	})

	return router
}
