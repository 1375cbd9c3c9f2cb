package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routes sets up the HTTP router for the catalog API.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's built-in logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- API routes ---
	r.Get("/api/vehicles", app.listVehiclesHandler)
	r.Post("/api/vehicles", app.createVehicleHandler)
	r.Delete("/api/vehicles/{vehicleID}", app.deleteVehicleHandler)

	// --- Persisted image payloads ---
	// Decoded inline payloads are served as plain static files.
	fs := http.FileServer(http.Dir(app.uploadsDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fs))

	return r
}
