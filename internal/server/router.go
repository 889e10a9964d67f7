package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func NewRouter(
	authMiddleware *AuthMiddleware,
	authHandler *AuthHandler,
	vacancyHandler *VacancyHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestMetrics)
	r.Use(cors.AllowAll().Handler)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Vacancy Service API"})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", authHandler.Register)
		auth.Post("/token", authHandler.Login)
		auth.Post("/logout", authHandler.Logout)
		auth.Post("/refresh", authHandler.Refresh)
		auth.With(authMiddleware.RequireActiveUser).Get("/me", authHandler.Me)
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authMiddleware.RequireActiveUser)

		api.Route("/vacancy", func(vacancy chi.Router) {
			vacancy.Post("/create", vacancyHandler.Create)
			vacancy.Put("/update/{id}", vacancyHandler.Update)
			vacancy.Patch("/update/{id}", vacancyHandler.Update)
			vacancy.Get("/get/{id}", vacancyHandler.Get)
			vacancy.Delete("/delete/{id}", vacancyHandler.Delete)
			vacancy.Post("/refresh-from-hh/{id}", vacancyHandler.RefreshFromHh)
		})

		api.Get("/vacancies/list", vacancyHandler.List)
	})

	return r
}
