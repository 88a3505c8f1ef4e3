package routes

import (
	"astra/telemetry-backend/internal/api"
	"astra/telemetry-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// Reads need an authenticated caller; writes are gated by role where the
// resource calls for it.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, loginLimiter *middleware.RateLimiter) {

	r.Route("/api/v1", func(v1 chi.Router) {

		// Public auth endpoints
		v1.With(loginLimiter.Middleware).Post("/auth/login", handlers.Login())
		v1.Post("/auth/refresh", handlers.Refresh())

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens, deps.Repo.UserGorm))

			authed.Post("/auth/logout", handlers.Logout())

			// Users and profile
			authed.Get("/auth/users", handlers.ListUsers())
			authed.Get("/auth/users/{id}", handlers.GetUser())
			authed.Put("/auth/users/{id}", handlers.UpdateUser()) // admin or self, checked by the service
			authed.Get("/auth/profile", handlers.CurrentUser())
			authed.Get("/auth/profile/update", handlers.GetProfile())
			authed.Put("/auth/profile/update", handlers.UpdateProfile())
			authed.Post("/auth/profile/change-password", handlers.ChangePassword())

			// Missions and flights
			authed.Get("/flights/missions", handlers.ListMissions())
			authed.Get("/flights/missions/{id}", handlers.GetMission())
			authed.Get("/flights/flights", handlers.ListFlights())
			authed.Get("/flights/flights/{id}", handlers.GetFlight())
			authed.Get("/flights/flights/{id}/path", handlers.ListFlightPath())
			authed.Post("/flights/flights/{id}/path", handlers.AddFlightPathPoint())
			authed.Get("/flights/flights/{id}/sessions", handlers.ListFlightSessions())
			authed.Get("/flights/flights/{id}/events", handlers.ListFlightEvents())
			authed.Get("/flights/csv", handlers.ExportFlightsCSV())
			authed.Get("/flights/sessions/{id}", handlers.GetSession())
			authed.Get("/flights/sessions/{id}/readings", handlers.SessionReadings())
			authed.Get("/flights/dashboard", handlers.Dashboard())
			authed.Get("/flights/history", handlers.FlightHistory())

			// Telemetry
			authed.Get("/telemetry/sensors", handlers.ListSensors())
			authed.Get("/telemetry/sensors/{id}", handlers.GetSensor())
			authed.Get("/telemetry/data", handlers.ListTelemetry())
			authed.Get("/telemetry/latest", handlers.LatestTelemetry())
			authed.Post("/telemetry/data", handlers.IngestTelemetry())
			authed.Get("/telemetry/gyroscope", handlers.ListGyroscope())
			authed.Post("/telemetry/gyroscope", handlers.IngestGyroscope())
			authed.Get("/telemetry/alerts", handlers.ListAlerts())
			authed.Post("/telemetry/alerts/acknowledge", handlers.AcknowledgeAlerts())
			authed.Get("/telemetry/stats", handlers.TelemetryStats())

			// Operator group (operator + admin)
			authed.Group(func(operator chi.Router) {
				operator.Use(middleware.RequireOperator())

				operator.Post("/flights/missions", handlers.CreateMission())
				operator.Put("/flights/missions/{id}", handlers.UpdateMission())
				operator.Post("/flights/flights", handlers.CreateFlight())
				operator.Put("/flights/flights/{id}", handlers.UpdateFlight())
				operator.Patch("/flights/flights/{id}/status", handlers.UpdateFlightStatus())
				operator.Post("/flights/flights/{id}/events", handlers.AddFlightEvent())
				operator.Post("/flights/flights/{id}/sessions", handlers.OpenFlightSession())
				operator.Post("/flights/sessions/{id}/close", handlers.CloseSession())
				operator.Post("/flights/sessions/{id}/telemetry", handlers.AttachSessionTelemetry())
				operator.Post("/flights/sessions/{id}/gyroscope", handlers.AttachSessionGyroscope())

				operator.Post("/telemetry/sensors", handlers.CreateSensor())
				operator.Put("/telemetry/sensors/{id}", handlers.UpdateSensor())
				operator.Post("/telemetry/alerts", handlers.CreateAlert())

				// Admin-only group
				operator.Group(func(admin chi.Router) {
					admin.Use(middleware.RequireAdmin())

					admin.Post("/auth/users", handlers.CreateUser())
					admin.Delete("/auth/users/{id}", handlers.DeleteUser())
					admin.Delete("/flights/missions/{id}", handlers.DeleteMission())
					admin.Delete("/flights/flights/{id}", handlers.DeleteFlight())
					admin.Delete("/telemetry/sensors/{id}", handlers.DeleteSensor())
				})
			})
		})
	})
}
