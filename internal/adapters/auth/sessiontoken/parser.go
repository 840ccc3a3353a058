package sessiontoken

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"vet-clinic-records/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token is not a valid jwt")
)

// Parser implementa auth.TokenParser decodificando el JWT de la cookie de
// sesión SIN verificar firma: el token lo emite y valida el API externo de
// auth, acá solo se leen claims para saber quién es la sesión.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	t, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return auth.Claims{}, ErrTokenInvalid
	}

	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrTokenInvalid
	}

	claims := auth.Claims{
		Cedula: stringClaim(mc, "cedula"),
		Email:  stringClaim(mc, "email"),
		Nombre: stringClaim(mc, "nombre"),
	}
	if claims.Cedula == "" {
		return auth.Claims{}, errors.New("session token missing cedula")
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, ok := mc[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
