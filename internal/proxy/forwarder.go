package proxy

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vet-clinic-records/internal/platform/httpclient"
	"vet-clinic-records/internal/platform/respond"
)

// Forwarder reenvía requests tal cual al API REST externo de la clínica
// (citas, vacunación, desparacitación, auth). El body upstream se relaya sin
// tipar: el passthrough no conoce los shapes del API externo.
type Forwarder struct {
	client *httpclient.Client
	log    zerolog.Logger
}

func New(base string, log zerolog.Logger) *Forwarder {
	client, err := httpclient.NewWithBaseURL(base, 15*time.Second)
	if err != nil {
		// Base inválida se trata igual que ausente: fail-fast con 400 en
		// cada request, nunca se intenta conexión.
		log.Warn().Err(err).Str("base", base).Msg("proxy: EXTERNAL_API_BASE inválida")
		client = httpclient.New(15 * time.Second)
	}
	return &Forwarder{client: client, log: log}
}

// NewWithClient permite inyectar el client (tests).
func NewWithClient(client *httpclient.Client, log zerolog.Logger) *Forwarder {
	return &Forwarder{client: client, log: log}
}

func (f *Forwarder) IsConfigured() bool {
	return f != nil && f.client != nil && strings.TrimSpace(f.client.BaseURL) != ""
}

// Options controla el mapeo de un prefijo local a uno upstream.
type Options struct {
	// LocalPrefix se recorta del path entrante; UpstreamPrefix lo reemplaza.
	// P.ej. /vacunas/list => /vacunacion/list.
	LocalPrefix    string
	UpstreamPrefix string

	// ForwardCookie propaga la cookie de sesión al upstream.
	ForwardCookie bool
}

// Handler devuelve el passthrough para un prefijo:
//   - sin EXTERNAL_API_BASE configurada => 400 inmediato, sin llamada de red;
//   - upstream responde no-JSON => 503 con diagnóstico;
//   - error de transporte => 500 genérico;
//   - si no, status y body upstream se relayan sin tocar.
func (f *Forwarder) Handler(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !f.IsConfigured() {
			respond.Error(w, http.StatusBadRequest, respond.CodeConfigMissing, "EXTERNAL_API_BASE no configurado")
			return
		}

		suffix := strings.TrimPrefix(r.URL.Path, opts.LocalPrefix)
		target := opts.UpstreamPrefix + suffix
		if raw := r.URL.RawQuery; raw != "" {
			target += "?" + raw
		}

		headers := map[string]string{
			"Content-Type": r.Header.Get("Content-Type"),
		}
		if opts.ForwardCookie {
			headers["Cookie"] = r.Header.Get("Cookie")
		}

		res, err := f.client.Forward(r.Context(), r.Method, target, headers, r.Body)
		if err != nil {
			f.log.Error().Err(err).Str("target", target).Msg("proxy: error reenviando request")
			respond.ServerError(w)
			return
		}

		if !res.IsJSON() {
			f.log.Error().
				Str("target", target).
				Str("content_type", res.ContentType).
				Msg("proxy: upstream no devolvió JSON")
			respond.Error(w, http.StatusServiceUnavailable, respond.CodeUpstreamInvalid,
				"La API externa no está disponible o no devolvió JSON")
			return
		}

		respond.Raw(w, res.StatusCode, "application/json", res.Body)
	}
}
