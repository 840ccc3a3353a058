package patients

// Patient es una mascota bajo cuidado de la clínica.
// Pertenece a exactamente un propietario (FK por cédula).
// Invariante: el par (nombre normalizado, cédula del propietario) es único.
type Patient struct {
	ID      int64
	Nombre  string
	Especie string
	Raza    string

	// Numéricos opcionales; nil = sin dato (NULL en BD).
	Edad   *float64
	Peso   *float64
	Altura *float64

	PropietariosCedula string
}

// NameRow es la proyección mínima {id, nombre} del listado de pacientes.
type NameRow struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}
