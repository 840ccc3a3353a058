package middleware

import (
	"context"
	"net/http"
	"strings"

	"vet-clinic-records/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// SessionCookie es la cookie donde el frontend guarda el token emitido por
// el API externo de auth.
const SessionCookie = "authToken"

// SessionContext:
// - Si parser != nil y viene cookie de sesión => intenta Parse() y setea claims.
// - Si parser == nil => modo dev: si viene header X-Debug-Cedula => setea claims.
// - Si no hay claims, el request sigue igual; los handlers deciden si exigen sesión.
func SessionContext(parser auth.TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar sesión sin parser
			if parser == nil {
				if ced := strings.TrimSpace(r.Header.Get("X-Debug-Cedula")); ced != "" {
					claims := auth.Claims{Cedula: ced}
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(r.Context(), token)
			if err != nil {
				// No cortamos acá. El handler decide si el endpoint exige sesión.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// sessionToken saca el token de la cookie de sesión, con fallback al header
// Authorization: Bearer (clientes no-browser).
func sessionToken(r *http.Request) string {
	if ck, err := r.Cookie(SessionCookie); err == nil {
		if v := strings.TrimSpace(ck.Value); v != "" {
			return v
		}
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
