package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vet-clinic-records/internal/domain/owners"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

var ownerColumns = []string{"nombre", "apellido", "telefono", "direccion"}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO propietarios (cedula, nombre, apellido, telefono, direccion)
		VALUES ($1,$2,$3,$4,$5)
	`,
		o.Cedula,
		o.Nombre,
		o.Apellido,
		o.Telefono,
		o.Direccion,
	)
	return err
}

func (r *OwnersRepo) GetByCedula(ctx context.Context, cedula string) (owners.Owner, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return owners.Owner{}, owners.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT cedula, nombre, apellido, telefono, direccion
		FROM propietarios
		WHERE cedula = $1
	`, cedula)

	var o owners.Owner
	if err := row.Scan(&o.Cedula, &o.Nombre, &o.Apellido, &o.Telefono, &o.Direccion); err != nil {
		if err == sql.ErrNoRows {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	return o, nil
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cedula, nombre, apellido, telefono, direccion
		FROM propietarios
		ORDER BY apellido, nombre
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		var o owners.Owner
		if err := rows.Scan(&o.Cedula, &o.Nombre, &o.Apellido, &o.Telefono, &o.Direccion); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Exists(ctx context.Context, cedula string) (bool, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return false, nil
	}

	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM propietarios WHERE cedula = $1 LIMIT 1
	`, cedula).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateFields arma el SET solo con las columnas presentes en fields.
// Las claves ya vienen filtradas por la allow-list del service; acá se
// recorre la lista fija de columnas para un orden determinístico.
func (r *OwnersRepo) UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error) {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	argN := 1

	for _, col := range ownerColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if len(sets) == 0 {
		return 0, owners.ErrNoFields
	}

	args = append(args, cedula)
	query := fmt.Sprintf("UPDATE propietarios SET %s WHERE cedula = $%d", strings.Join(sets, ", "), argN)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *OwnersRepo) Delete(ctx context.Context, cedula string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM propietarios WHERE cedula = $1`, cedula)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
