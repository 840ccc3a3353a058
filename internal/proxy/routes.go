package proxy

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta los prefijos proxied. El mapeo de nombres viene del
// API externo: /vacunas viaja a /vacunacion y /desparacitantes a
// /desparacitacion.
func RegisterRoutes(r chi.Router, f *Forwarder) {
	mounts := []Options{
		{LocalPrefix: "/citas", UpstreamPrefix: "/citas"},
		{LocalPrefix: "/vacunas", UpstreamPrefix: "/vacunacion"},
		{LocalPrefix: "/desparacitantes", UpstreamPrefix: "/desparacitacion"},
	}

	for _, m := range mounts {
		h := f.Handler(m)
		r.HandleFunc(m.LocalPrefix, h)
		r.HandleFunc(m.LocalPrefix+"/*", h)
	}

	// Login: el API externo emite el token; acá solo se relaya.
	r.Post("/api/v1/auth/login", f.Handler(Options{
		LocalPrefix:    "/api/v1/auth/login",
		UpstreamPrefix: "/auth/login",
	}))

	// Ficha médica remota: único endpoint que propaga la cookie de sesión.
	r.Get("/proxy/fichamedica", f.Handler(Options{
		LocalPrefix:    "/proxy/fichamedica",
		UpstreamPrefix: "/fichamedica",
		ForwardCookie:  true,
	}))
}
