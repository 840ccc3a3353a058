package memory

import (
	"context"
	"sort"

	"vet-clinic-records/internal/domain/history"
)

type historyRepo struct {
	s *Store
}

func (r *historyRepo) Insert(ctx context.Context, e history.Entry) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextEntryID++
	e.ID = r.s.nextEntryID
	r.s.entries[e.ID] = e
	return e.ID, nil
}

func (r *historyRepo) EntryByID(ctx context.Context, id int64) ([]history.EntryRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return []history.EntryRow{}, nil
	}
	return []history.EntryRow{r.toEntryRow(e)}, nil
}

func (r *historyRepo) EntriesByPatient(ctx context.Context, patientID int64) ([]history.EntryRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]history.EntryRow, 0)
	for _, e := range r.s.entries {
		if e.PacientesIDMascota == patientID {
			out = append(out, r.toEntryRow(e))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *historyRepo) AllEntries(ctx context.Context) ([]history.EntryRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]history.EntryRow, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		out = append(out, r.toEntryRow(e))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *historyRepo) ViewByOwner(ctx context.Context, cedula string) ([]history.ViewRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.viewRows(func(ownerCedula string) bool { return ownerCedula == cedula }), nil
}

func (r *historyRepo) ViewAll(ctx context.Context) ([]history.ViewRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.viewRows(func(string) bool { return true }), nil
}

func (r *historyRepo) PatientIDOf(ctx context.Context, entryID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[entryID]
	if !ok {
		return 0, history.ErrNotFound
	}
	return e.PacientesIDMascota, nil
}

func (r *historyRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.entries[id]
	if !ok {
		return 0, nil
	}

	for k, v := range fields {
		switch k {
		case "motivo_consulta":
			e.MotivoConsulta, _ = v.(string)
		case "diagnostico":
			e.Diagnostico = toStringPtr(v)
		case "tratamiento":
			e.Tratamiento = toStringPtr(v)
		case "imagen_url":
			e.ImagenURL = toStringPtr(v)
		case "imagen_name":
			e.ImagenName = toStringPtr(v)
		}
	}

	r.s.entries[id] = e
	return 1, nil
}

func (r *historyRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[id]; !ok {
		return 0, nil
	}
	delete(r.s.entries, id)
	return 1, nil
}

// toEntryRow hace el LEFT JOIN con pacientes: el nombre puede ser nil si el
// paciente ya no existe. Caller debe tener el lock.
func (r *historyRepo) toEntryRow(e history.Entry) history.EntryRow {
	row := history.EntryRow{
		ID:                 e.ID,
		MotivoConsulta:     e.MotivoConsulta,
		Diagnostico:        e.Diagnostico,
		Tratamiento:        e.Tratamiento,
		ImagenURL:          e.ImagenURL,
		ImagenName:         e.ImagenName,
		PacientesIDMascota: e.PacientesIDMascota,
	}
	if p, ok := r.s.patients[e.PacientesIDMascota]; ok {
		nombre := p.Nombre
		row.PacienteNombre = &nombre
	}
	return row
}

// viewRows arma el triple join propietario × paciente × ficha, ordenado por
// nombre de mascota como la consulta SQL. Caller debe tener el lock.
func (r *historyRepo) viewRows(matchOwner func(cedula string) bool) []history.ViewRow {
	out := make([]history.ViewRow, 0)

	for _, e := range r.s.entries {
		p, ok := r.s.patients[e.PacientesIDMascota]
		if !ok {
			continue
		}
		o, ok := r.s.owners[p.PropietariosCedula]
		if !ok || !matchOwner(o.Cedula) {
			continue
		}

		out = append(out, history.ViewRow{
			Cedula:              o.Cedula,
			NombrePropietario:   o.Nombre,
			ApellidoPropietario: o.Apellido,
			Telefono:            o.Telefono,
			Direccion:           o.Direccion,
			NombreMascota:       p.Nombre,
			Especie:             p.Especie,
			Raza:                p.Raza,
			Edad:                p.Edad,
			Peso:                p.Peso,
			Altura:              p.Altura,
			HistorialID:         e.ID,
			MotivoConsulta:      e.MotivoConsulta,
			Diagnostico:         e.Diagnostico,
			Tratamiento:         e.Tratamiento,
			PacientesIDMascota:  e.PacientesIDMascota,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NombreMascota != out[j].NombreMascota {
			return out[i].NombreMascota < out[j].NombreMascota
		}
		return out[i].HistorialID < out[j].HistorialID
	})
	return out
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
