package patients

import "context"

type Repository interface {
	// Create inserta y devuelve el id generado. Si el índice único sobre
	// (nombre normalizado, cédula) detecta un duplicado, devuelve ErrDuplicate:
	// esa es la señal autoritativa de conflicto, el pre-chequeo es solo fast path.
	Create(ctx context.Context, p Patient) (int64, error)

	GetByID(ctx context.Context, id int64) (Patient, error)
	ListNames(ctx context.Context) ([]NameRow, error)
	ListByOwner(ctx context.Context, cedula string) ([]Patient, error)

	// ExistsByNameAndOwner compara nombre con TRIM + LOWER en ambos lados.
	ExistsByNameAndOwner(ctx context.Context, nombre, cedula string) (bool, error)

	// OwnerCedulaOf devuelve la cédula del propietario de un paciente.
	OwnerCedulaOf(ctx context.Context, id int64) (string, error)

	UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
