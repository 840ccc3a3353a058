package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vet-clinic-records/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

var historyColumns = []string{"motivo_consulta", "diagnostico", "tratamiento", "imagen_url", "imagen_name"}

const entrySelect = `
	SELECT h.id, h.motivo_consulta, h.diagnostico, h.tratamiento,
	       h.imagen_url, h.imagen_name, h.pacientes_id_mascota,
	       p.nombre AS paciente_nombre
	FROM historial_medico h
	LEFT JOIN pacientes p ON p.id_mascota = h.pacientes_id_mascota
`

const viewSelect = `
	SELECT pro.cedula AS cedula,
	       pro.nombre AS nombre_propietario,
	       pro.apellido AS apellido_propietario,
	       pro.telefono AS telefono,
	       pro.direccion AS direccion,
	       pac.nombre AS nombre_mascota,
	       pac.especie AS especie,
	       pac.raza AS raza,
	       pac.edad AS edad,
	       pac.peso AS peso,
	       pac.altura AS altura,
	       h.id AS historial_id,
	       h.motivo_consulta AS motivo_consulta,
	       h.diagnostico AS diagnostico,
	       h.tratamiento AS tratamiento,
	       h.pacientes_id_mascota
	FROM propietarios pro
	JOIN pacientes pac ON pro.cedula = pac.propietarios_cedula
	JOIN historial_medico h ON pac.id_mascota = h.pacientes_id_mascota
`

func (r *HistoryRepo) Insert(ctx context.Context, e history.Entry) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO historial_medico
			(motivo_consulta, diagnostico, tratamiento, imagen_url, imagen_name, pacientes_id_mascota)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		e.MotivoConsulta,
		e.Diagnostico,
		e.Tratamiento,
		e.ImagenURL,
		e.ImagenName,
		e.PacientesIDMascota,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *HistoryRepo) EntryByID(ctx context.Context, id int64) ([]history.EntryRow, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+` WHERE h.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

func (r *HistoryRepo) EntriesByPatient(ctx context.Context, patientID int64) ([]history.EntryRow, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+` WHERE h.pacientes_id_mascota = $1 ORDER BY h.id DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

func (r *HistoryRepo) AllEntries(ctx context.Context) ([]history.EntryRow, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+` ORDER BY h.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntryRows(rows)
}

func (r *HistoryRepo) ViewByOwner(ctx context.Context, cedula string) ([]history.ViewRow, error) {
	rows, err := r.db.QueryContext(ctx, viewSelect+` WHERE pro.cedula = $1 ORDER BY pac.nombre`, cedula)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViewRows(rows)
}

func (r *HistoryRepo) ViewAll(ctx context.Context) ([]history.ViewRow, error) {
	rows, err := r.db.QueryContext(ctx, viewSelect+` ORDER BY pac.nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViewRows(rows)
}

func (r *HistoryRepo) PatientIDOf(ctx context.Context, entryID int64) (int64, error) {
	var pid int64
	err := r.db.QueryRowContext(ctx, `
		SELECT pacientes_id_mascota FROM historial_medico WHERE id = $1 LIMIT 1
	`, entryID).Scan(&pid)
	if err == sql.ErrNoRows {
		return 0, history.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return pid, nil
}

func (r *HistoryRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	argN := 1

	for _, col := range historyColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if len(sets) == 0 {
		return 0, history.ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE historial_medico SET %s WHERE id = $%d", strings.Join(sets, ", "), argN)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *HistoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM historial_medico WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEntryRows(rows *sql.Rows) ([]history.EntryRow, error) {
	out := make([]history.EntryRow, 0)
	for rows.Next() {
		var e history.EntryRow
		var diagnostico, tratamiento, imagenURL, imagenName, pacienteNombre sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.MotivoConsulta,
			&diagnostico,
			&tratamiento,
			&imagenURL,
			&imagenName,
			&e.PacientesIDMascota,
			&pacienteNombre,
		); err != nil {
			return nil, err
		}

		e.Diagnostico = fromNullString(diagnostico)
		e.Tratamiento = fromNullString(tratamiento)
		e.ImagenURL = fromNullString(imagenURL)
		e.ImagenName = fromNullString(imagenName)
		e.PacienteNombre = fromNullString(pacienteNombre)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanViewRows(rows *sql.Rows) ([]history.ViewRow, error) {
	out := make([]history.ViewRow, 0)
	for rows.Next() {
		var v history.ViewRow
		var edad, peso, altura sql.NullFloat64
		var diagnostico, tratamiento sql.NullString

		if err := rows.Scan(
			&v.Cedula,
			&v.NombrePropietario,
			&v.ApellidoPropietario,
			&v.Telefono,
			&v.Direccion,
			&v.NombreMascota,
			&v.Especie,
			&v.Raza,
			&edad,
			&peso,
			&altura,
			&v.HistorialID,
			&v.MotivoConsulta,
			&diagnostico,
			&tratamiento,
			&v.PacientesIDMascota,
		); err != nil {
			return nil, err
		}

		v.Edad = fromNullFloat(edad)
		v.Peso = fromNullFloat(peso)
		v.Altura = fromNullFloat(altura)
		v.Diagnostico = fromNullString(diagnostico)
		v.Tratamiento = fromNullString(tratamiento)
		out = append(out, v)
	}
	return out, rows.Err()
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
