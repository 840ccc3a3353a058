package owners

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("owner not found")
	ErrDuplicate    = errors.New("owner already exists")
	ErrNoFields     = errors.New("no fields to update")
)

// updateFields es la allow-list del update parcial de propietarios.
// El orden define el orden de columnas en el SET generado.
var updateFields = []string{"nombre", "apellido", "telefono", "direccion"}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Cedula    string
	Nombre    string
	Apellido  string
	Telefono  string
	Direccion string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Owner, error) {
	o := Owner{
		Cedula:    strings.TrimSpace(in.Cedula),
		Nombre:    strings.TrimSpace(in.Nombre),
		Apellido:  strings.TrimSpace(in.Apellido),
		Telefono:  strings.TrimSpace(in.Telefono),
		Direccion: strings.TrimSpace(in.Direccion),
	}
	if o.Cedula == "" || o.Nombre == "" || o.Apellido == "" {
		return Owner{}, ErrInvalidInput
	}

	exists, err := s.repo.Exists(ctx, o.Cedula)
	if err != nil {
		return Owner{}, err
	}
	if exists {
		return Owner{}, ErrDuplicate
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) GetByCedula(ctx context.Context, cedula string) (Owner, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetByCedula(ctx, cedula)
}

func (s *Service) List(ctx context.Context) ([]Owner, error) {
	return s.repo.List(ctx)
}

// Exists es el chequeo de existencia por cédula que usa el registro de
// pacientes antes de insertar.
func (s *Service) Exists(ctx context.Context, cedula string) (bool, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return false, ErrInvalidInput
	}
	return s.repo.Exists(ctx, cedula)
}

// Update aplica un update parcial: de fields solo pasan las claves de la
// allow-list. Sin campos reconocidos => ErrNoFields, sin tocar la BD.
func (s *Service) Update(ctx context.Context, cedula string, fields map[string]any) (int64, Owner, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return 0, Owner{}, ErrInvalidInput
	}

	filtered := make(map[string]any, len(fields))
	for _, k := range updateFields {
		if v, ok := fields[k]; ok {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return 0, Owner{}, ErrNoFields
	}

	affected, err := s.repo.UpdateFields(ctx, cedula, filtered)
	if err != nil {
		return 0, Owner{}, err
	}

	o, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return affected, Owner{}, err
	}
	return affected, o, nil
}

func (s *Service) Delete(ctx context.Context, cedula string) (int64, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.Delete(ctx, cedula)
}
