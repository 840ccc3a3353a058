package memory

import (
	"context"
	"sort"
	"strings"

	"vet-clinic-records/internal/domain/owners"
)

type ownersRepo struct {
	s *Store
}

func (r *ownersRepo) Create(ctx context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(o.Cedula) == "" {
		return owners.ErrInvalidInput
	}
	if _, exists := r.s.owners[o.Cedula]; exists {
		return owners.ErrDuplicate
	}
	r.s.owners[o.Cedula] = o
	return nil
}

func (r *ownersRepo) GetByCedula(ctx context.Context, cedula string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.owners[cedula]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *ownersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]owners.Owner, 0, len(r.s.owners))
	for _, o := range r.s.owners {
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Apellido != out[j].Apellido {
			return out[i].Apellido < out[j].Apellido
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out, nil
}

func (r *ownersRepo) Exists(ctx context.Context, cedula string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.owners[cedula]
	return ok, nil
}

func (r *ownersRepo) UpdateFields(ctx context.Context, cedula string, fields map[string]any) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.owners[cedula]
	if !ok {
		return 0, nil
	}

	for k, v := range fields {
		s, _ := v.(string) // nil => ""
		switch k {
		case "nombre":
			o.Nombre = s
		case "apellido":
			o.Apellido = s
		case "telefono":
			o.Telefono = s
		case "direccion":
			o.Direccion = s
		}
	}

	r.s.owners[cedula] = o
	return 1, nil
}

func (r *ownersRepo) Delete(ctx context.Context, cedula string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.owners[cedula]; !ok {
		return 0, nil
	}
	delete(r.s.owners, cedula)
	return 1, nil
}
