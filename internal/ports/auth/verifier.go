package auth

import "context"

// TokenParser extrae claims de un token de sesión.
// La verificación criptográfica vive en el API externo de auth; acá solo se
// decodifica lo necesario para identificar la sesión.
type TokenParser interface {
	Parse(ctx context.Context, token string) (Claims, error)
}
