package owners

// Owner es un propietario de mascotas, cliente de la clínica.
// La cédula (documento de identidad) es la clave primaria.
type Owner struct {
	Cedula    string
	Nombre    string
	Apellido  string
	Telefono  string
	Direccion string
}
