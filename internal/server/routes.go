package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter yapılandırmadan bağımsız bir handler üretir; testler ve
// gömülü kullanım içindir.
func NewRouter(cfg Config) http.Handler {
	return newAPI(cfg).routes()
}

func (a *api) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(a.logger))
	r.Use(LoggingMiddleware(a.logger))
	r.Use(CrossOriginIsolationMiddleware())

	r.Get("/health", a.health)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", a.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(a.sessionMiddleware)

			r.Get("/", a.getSession)
			r.Delete("/", a.deleteSession)
			r.Get("/media", a.media)

			r.Put("/width", a.setWidth)
			r.Put("/playhead", a.setPlayhead)
			r.Post("/cuts", a.addCut)
			r.Post("/pointer", a.pointer)
			r.Post("/select", a.selectAt)
			r.Delete("/selection", a.clearSelection)
			r.Post("/delete", a.deleteSelected)
			r.Put("/zoom", a.setZoom)
			r.Post("/zoom/playhead", a.zoomToPlayhead)
			r.Put("/scroll", a.setScroll)

			r.Get("/keep-segments", a.keepSegments)
			r.Get("/edl", a.edl)
			r.Get("/project", a.getProject)
			r.Put("/project", a.putProject)

			r.Post("/export", a.startExport)
			r.Get("/export", a.exportStatus)

			r.Post("/transcribe", a.startTranscribe)
			r.Get("/transcript", a.transcript)
		})
	})

	return r
}
