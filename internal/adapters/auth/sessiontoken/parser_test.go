package sessiontoken

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	// La firma no se valida acá (la valida el API de auth), pero el token debe
	// ser un JWT bien formado.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("clave-de-prueba"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestParse_ReadsClaims(t *testing.T) {
	p := NewParser()

	token := signedToken(t, jwt.MapClaims{
		"cedula": " 1102345678 ",
		"email":  "lucia@example.com",
		"nombre": "Lucía",
	})

	claims, err := p.Parse(context.Background(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Cedula != "1102345678" {
		t.Fatalf("expected cedula trimmed, got %q", claims.Cedula)
	}
	if claims.Email != "lucia@example.com" || claims.Nombre != "Lucía" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParse_MissingCedula(t *testing.T) {
	p := NewParser()

	token := signedToken(t, jwt.MapClaims{"email": "x@example.com"})
	if _, err := p.Parse(context.Background(), token); err == nil {
		t.Fatal("expected error for token without cedula")
	}
}

func TestParse_EmptyAndGarbage(t *testing.T) {
	p := NewParser()

	if _, err := p.Parse(context.Background(), "   "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
	if _, err := p.Parse(context.Background(), "no-es-un-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
