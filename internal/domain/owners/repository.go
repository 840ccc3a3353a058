package owners

import "context"

type Repository interface {
	Create(ctx context.Context, o Owner) error
	GetByCedula(ctx context.Context, cedula string) (Owner, error)
	List(ctx context.Context) ([]Owner, error)
	Exists(ctx context.Context, cedula string) (bool, error)

	// UpdateFields aplica un update parcial: solo las columnas presentes en
	// fields (ya filtradas por allow-list) entran al SET. Devuelve filas afectadas.
	UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error)

	Delete(ctx context.Context, cedula string) (int64, error)
}
