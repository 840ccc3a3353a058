package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"vet-clinic-records/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

var patientColumns = []string{"nombre", "especie", "raza", "edad", "peso", "altura", "propietarios_cedula"}

// uniqueViolation es el SQLSTATE de violación de índice único; el índice
// sobre (LOWER(TRIM(nombre)), propietarios_cedula) es la señal autoritativa
// del duplicate-guard.
const uniqueViolation = "23505"

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pacientes (nombre, especie, raza, edad, peso, altura, propietarios_cedula)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id_mascota
	`,
		p.Nombre,
		p.Especie,
		p.Raza,
		toNullFloat(p.Edad),
		toNullFloat(p.Peso),
		toNullFloat(p.Altura),
		p.PropietariosCedula,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, patients.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id int64) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id_mascota, nombre, especie, raza, edad, peso, altura, propietarios_cedula
		FROM pacientes
		WHERE id_mascota = $1
	`, id)

	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) ListNames(ctx context.Context) ([]patients.NameRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_mascota AS id, nombre
		FROM pacientes
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.NameRow, 0)
	for rows.Next() {
		var n patients.NameRow
		if err := rows.Scan(&n.ID, &n.Nombre); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) ListByOwner(ctx context.Context, cedula string) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_mascota, nombre, especie, raza, edad, peso, altura, propietarios_cedula
		FROM pacientes
		WHERE propietarios_cedula = $1
		ORDER BY nombre ASC
	`, cedula)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) ExistsByNameAndOwner(ctx context.Context, nombre, cedula string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM pacientes
		WHERE LOWER(TRIM(nombre)) = LOWER(TRIM($1)) AND propietarios_cedula = $2
		LIMIT 1
	`, nombre, strings.TrimSpace(cedula)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PatientsRepo) OwnerCedulaOf(ctx context.Context, id int64) (string, error) {
	var cedula string
	err := r.db.QueryRowContext(ctx, `
		SELECT propietarios_cedula FROM pacientes WHERE id_mascota = $1 LIMIT 1
	`, id).Scan(&cedula)
	if err == sql.ErrNoRows {
		return "", patients.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return cedula, nil
}

func (r *PatientsRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	argN := 1

	for _, col := range patientColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if len(sets) == 0 {
		return 0, patients.ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE pacientes SET %s WHERE id_mascota = $%d", strings.Join(sets, ", "), argN)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PatientsRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pacientes WHERE id_mascota = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var edad, peso, altura sql.NullFloat64

	if err := row.Scan(
		&p.ID,
		&p.Nombre,
		&p.Especie,
		&p.Raza,
		&edad,
		&peso,
		&altura,
		&p.PropietariosCedula,
	); err != nil {
		return patients.Patient{}, err
	}

	p.Edad = fromNullFloat(edad)
	p.Peso = fromNullFloat(peso)
	p.Altura = fromNullFloat(altura)
	return p, nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
