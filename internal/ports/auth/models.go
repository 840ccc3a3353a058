package auth

// Claims representa la información extraída del token de sesión.
// La cédula identifica al propietario autenticado.
type Claims struct {
	Cedula string
	Email  string
	Nombre string
}
