package history

// Entry es una ficha médica: un registro de visita clínica de un paciente.
type Entry struct {
	ID             int64
	MotivoConsulta string

	// Opcionales; nil = NULL en BD.
	Diagnostico *string
	Tratamiento *string
	ImagenURL   *string
	ImagenName  *string

	PacientesIDMascota int64
}

// EntryRow es la fila de la consulta simple: ficha + nombre del paciente
// (LEFT JOIN, el nombre puede faltar si el paciente ya no existe).
type EntryRow struct {
	ID                 int64   `json:"id"`
	MotivoConsulta     string  `json:"motivo_consulta"`
	Diagnostico        *string `json:"diagnostico"`
	Tratamiento        *string `json:"tratamiento"`
	ImagenURL          *string `json:"imagen_url"`
	ImagenName         *string `json:"imagen_name"`
	PacientesIDMascota int64   `json:"pacientes_id_mascota"`
	PacienteNombre     *string `json:"paciente_nombre"`
}

// ViewRow es la fila de la vista completa: propietario × paciente × ficha.
// Requiere linkage consistente entre las tres tablas; cuando no lo hay, el
// resolver degrada a EntryRow.
type ViewRow struct {
	Cedula              string   `json:"cedula"`
	NombrePropietario   string   `json:"nombre_propietario"`
	ApellidoPropietario string   `json:"apellido_propietario"`
	Telefono            string   `json:"telefono"`
	Direccion           string   `json:"direccion"`
	NombreMascota       string   `json:"nombre_mascota"`
	Especie             string   `json:"especie"`
	Raza                string   `json:"raza"`
	Edad                *float64 `json:"edad"`
	Peso                *float64 `json:"peso"`
	Altura              *float64 `json:"altura"`
	HistorialID         int64    `json:"historial_id"`
	MotivoConsulta      string   `json:"motivo_consulta"`
	Diagnostico         *string  `json:"diagnostico"`
	Tratamiento         *string  `json:"tratamiento"`
	PacientesIDMascota  int64    `json:"pacientes_id_mascota"`
}
