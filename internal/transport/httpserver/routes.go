package httpserver

import (
	"net/http"
	"time"

	"budget-bot-go/internal/transport/httpserver/handler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API consumed by the conversational layer. User identity
// arrives in the path; authenticating the caller is that layer's concern.
func NewRouter(handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/users", handlers.Register)

		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Get("/", handlers.GetProfile)
			r.Post("/profile", handlers.CompleteProfile)
			r.Post("/reset", handlers.ResetUser)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.AddCategory)
			r.Put("/categories", handlers.ReplaceCategories)

			r.Post("/entries/expense", handlers.RecordExpense)
			r.Post("/entries/income", handlers.RecordIncome)
			r.Get("/entries", handlers.ListEntries)
			r.Get("/entries/by-category", handlers.ListEntriesByCategory)
			r.Delete("/entries/{entry_id}", handlers.DeleteEntry)

			r.Get("/limits", handlers.ListLimits)
			r.Post("/limits", handlers.CreateOrReplaceLimit)
			r.Post("/limits/preview", handlers.PreviewViolation)
			r.Delete("/limits/{limit_id}", handlers.DeleteLimit)

			r.Get("/reports/summary", handlers.ReportSummary)
			r.Get("/reports/by-category", handlers.ReportByCategory)
		})
	})

	return r
}
