package routes

import (
	"net/http"

	"github.com/Dias09/esports-hub/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes assembles the full HTTP surface on the given router.
// authenticate is the JWT middleware guarding the mutating routes.
func SetupRoutes(
	router *chi.Mux,
	authenticate func(http.Handler) http.Handler,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	registrationHandler *handlers.RegistrationHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/leaderboard", leaderboardHandler.Get)
	router.Get("/games", tournamentHandler.ListGames)
	router.Get("/api/tournaments/location/{location}", tournamentHandler.GetByLocation)
	router.Get("/ws/leaderboard/{category}", webSocketHandler.ServeLeaderboard)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListUpcoming)
		r.Get("/{tournamentID}", tournamentHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Post("/{tournamentID}/register", registrationHandler.Register)
			r.Get("/{tournamentID}/registrations", registrationHandler.ListByTournament)
		})
	})

	router.Route("/registrations", func(r chi.Router) {
		r.Use(authenticate)
		r.Put("/{registrationID}/status", registrationHandler.UpdateStatus)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", teamHandler.ListOwn)
		r.Post("/", teamHandler.Create)
		r.Get("/{teamID}", teamHandler.Get)
		r.Put("/{teamID}", teamHandler.Update)
		r.Delete("/{teamID}", teamHandler.Delete)
		r.Put("/{teamID}/record", teamHandler.AdjustRecord)
		r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		r.Post("/{teamID}/players", playerHandler.Add)
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(authenticate)
		r.Put("/{playerID}", playerHandler.Rename)
		r.Delete("/{playerID}", playerHandler.Remove)
		r.Post("/{playerID}/avatar", playerHandler.UploadAvatar)
	})
}
