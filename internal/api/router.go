package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marlowe/cadastr/internal/auth"
	"github.com/marlowe/cadastr/internal/files"
	"github.com/marlowe/cadastr/internal/registry"
	"github.com/marlowe/cadastr/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// Auth endpoints, public search, and zoning law reads are open;
// everything else sits behind the bearer-token middleware.
// broker, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(authSvc *auth.Service, reg *registry.Service, uploads *files.Store, broker *sse.Broker) chi.Router {
	h := NewHandler(authSvc, reg)
	uh := NewUploadHandler(uploads)

	r := chi.NewRouter()

	// Open endpoints.
	r.Post("/auth/signup", h.SignUp)
	r.Post("/auth/signin", h.SignIn)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/signout", h.SignOut)
	r.Get("/search", h.Search)
	r.Get("/zoning-laws", h.ListZoningLaws)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authSvc))

		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
		r.Get("/profiles", h.ListProfiles)
		r.Get("/profiles/{id}", h.GetProfile)

		r.Get("/lands", h.ListLands)
		r.Post("/lands", h.CreateLand)
		r.Get("/lands/{id}", h.GetLand)
		r.Put("/lands/{id}", h.UpdateLand)
		r.Delete("/lands/{id}", h.DeleteLand)
		r.Put("/lands/{id}/status", h.TransitionLandStatus)
		r.Post("/lands/{id}/verification-request", h.RequestVerification)

		r.Get("/documents", h.ListDocuments)
		r.Post("/documents", h.SubmitDocument)
		r.Get("/documents/{id}", h.GetDocument)
		r.Put("/documents/{id}/review", h.ReviewDocument)

		r.Get("/transactions", h.ListTransactions)
		r.Post("/transactions", h.CreateTransaction)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Put("/transactions/{id}/status", h.SetTransactionStatus)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications", h.SendNotification)
		r.Put("/notifications/{id}/read", h.MarkNotificationRead)
		r.Put("/notifications/read-all", h.MarkAllNotificationsRead)

		r.Post("/zoning-laws", h.CreateZoningLaw)
		r.Put("/zoning-laws/{id}", h.UpdateZoningLaw)
		r.Delete("/zoning-laws/{id}", h.DeleteZoningLaw)

		r.Get("/dashboard", h.Dashboard)

		r.Post("/files", uh.Upload)
		r.Get("/files/{filename}", uh.ServeFile)

		if broker != nil {
			r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				broker.ServeHTTP(w, r, identityFrom(r).ID)
			})
		}
	})

	return r
}
