package history

import "context"

// Repository expone cada forma de consulta del resolver por separado.
// El orden y el fallback entre formas viven en el Service, no acá.
type Repository interface {
	Insert(ctx context.Context, e Entry) (int64, error)

	// EntryByID devuelve cero o una fila; cero filas NO es error.
	EntryByID(ctx context.Context, id int64) ([]EntryRow, error)

	// EntriesByPatient lista fichas de un paciente, ORDER BY id DESC.
	EntriesByPatient(ctx context.Context, patientID int64) ([]EntryRow, error)

	// AllEntries lista todas las fichas, ORDER BY id DESC.
	AllEntries(ctx context.Context) ([]EntryRow, error)

	// ViewByOwner arma la vista completa filtrada por cédula, ORDER BY nombre
	// de mascota.
	ViewByOwner(ctx context.Context, cedula string) ([]ViewRow, error)

	// ViewAll arma la vista completa sin filtro.
	ViewAll(ctx context.Context) ([]ViewRow, error)

	// PatientIDOf devuelve el paciente dueño de una ficha.
	PatientIDOf(ctx context.Context, entryID int64) (int64, error)

	UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
