package memory

import (
	"context"
	"sort"
	"strings"

	"vet-clinic-records/internal/domain/patients"
)

type patientsRepo struct {
	s *Store
}

func (r *patientsRepo) Create(ctx context.Context, p patients.Patient) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Análogo del índice único de Postgres sobre (nombre normalizado, cédula).
	for _, existing := range r.s.patients {
		if sameNormalizedName(existing.Nombre, p.Nombre) && existing.PropietariosCedula == p.PropietariosCedula {
			return 0, patients.ErrDuplicate
		}
	}

	r.s.nextPatientID++
	p.ID = r.s.nextPatientID
	r.s.patients[p.ID] = p
	return p.ID, nil
}

func (r *patientsRepo) GetByID(ctx context.Context, id int64) (patients.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.patients[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *patientsRepo) ListNames(ctx context.Context) ([]patients.NameRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]patients.NameRow, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		out = append(out, patients.NameRow{ID: p.ID, Nombre: p.Nombre})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *patientsRepo) ListByOwner(ctx context.Context, cedula string) ([]patients.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]patients.Patient, 0)
	for _, p := range r.s.patients {
		if p.PropietariosCedula == cedula {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *patientsRepo) ExistsByNameAndOwner(ctx context.Context, nombre, cedula string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cedula = strings.TrimSpace(cedula)
	for _, p := range r.s.patients {
		if sameNormalizedName(p.Nombre, nombre) && p.PropietariosCedula == cedula {
			return true, nil
		}
	}
	return false, nil
}

func (r *patientsRepo) OwnerCedulaOf(ctx context.Context, id int64) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.patients[id]
	if !ok {
		return "", patients.ErrNotFound
	}
	return p.PropietariosCedula, nil
}

func (r *patientsRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.patients[id]
	if !ok {
		return 0, nil
	}

	for k, v := range fields {
		switch k {
		case "nombre":
			p.Nombre, _ = v.(string)
		case "especie":
			p.Especie, _ = v.(string)
		case "raza":
			p.Raza, _ = v.(string)
		case "propietarios_cedula":
			p.PropietariosCedula, _ = v.(string)
		case "edad":
			p.Edad = toFloatPtr(v)
		case "peso":
			p.Peso = toFloatPtr(v)
		case "altura":
			p.Altura = toFloatPtr(v)
		}
	}

	r.s.patients[id] = p
	return 1, nil
}

func (r *patientsRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[id]; !ok {
		return 0, nil
	}
	delete(r.s.patients, id)
	return 1, nil
}

func sameNormalizedName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func toFloatPtr(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
