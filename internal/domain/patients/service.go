package patients

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("patient not found")
	ErrDuplicate     = errors.New("patient already registered for owner")
	ErrOwnerNotFound = errors.New("owner cedula not found")
	ErrNoFields      = errors.New("no fields to update")
)

// ValidationError lleva el mensaje que nombra al campo ofensivo.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// updateFields es la allow-list del update parcial de pacientes.
var updateFields = []string{"nombre", "especie", "raza", "edad", "peso", "altura", "propietarios_cedula"}

var numericFields = map[string]bool{"edad": true, "peso": true, "altura": true}

// OwnerChecker es lo único que pacientes necesita del módulo de propietarios.
type OwnerChecker interface {
	Exists(ctx context.Context, cedula string) (bool, error)
}

type Service struct {
	repo   Repository
	owners OwnerChecker
}

func NewService(repo Repository, owners OwnerChecker) *Service {
	return &Service{repo: repo, owners: owners}
}

type CreateInput struct {
	Nombre  string
	Especie string
	Raza    string
	Edad    *float64
	Peso    *float64
	Altura  *float64

	PropietariosCedula string
}

// Create valida, verifica que el propietario exista, aplica el duplicate-guard
// y recién ahí inserta. El chequeo de duplicado es best-effort (no atómico);
// el índice único del storage es quien cierra la carrera de verdad.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	p := Patient{
		Nombre:             strings.TrimSpace(in.Nombre),
		Especie:            strings.TrimSpace(in.Especie),
		Raza:               strings.TrimSpace(in.Raza),
		Edad:               in.Edad,
		Peso:               in.Peso,
		Altura:             in.Altura,
		PropietariosCedula: strings.TrimSpace(in.PropietariosCedula),
	}

	if p.Nombre == "" {
		return 0, &ValidationError{Msg: "Nombre de la mascota es obligatorio"}
	}
	if p.Especie == "" {
		return 0, &ValidationError{Msg: "Especie es obligatoria"}
	}
	if p.PropietariosCedula == "" {
		return 0, &ValidationError{Msg: "Cédula del propietario es obligatoria"}
	}
	for name, v := range map[string]*float64{"edad": p.Edad, "peso": p.Peso, "altura": p.Altura} {
		if v != nil && *v < 0 {
			return 0, &ValidationError{Msg: name + " debe ser un número válido mayor o igual a 0"}
		}
	}

	ownerExists, err := s.owners.Exists(ctx, p.PropietariosCedula)
	if err != nil {
		return 0, err
	}
	if !ownerExists {
		return 0, ErrOwnerNotFound
	}

	dup, err := s.repo.ExistsByNameAndOwner(ctx, p.Nombre, p.PropietariosCedula)
	if err != nil {
		return 0, err
	}
	if dup {
		return 0, ErrDuplicate
	}

	return s.repo.Create(ctx, p)
}

// Exists es el pre-chequeo de duplicados que consume el formulario (debounced
// del lado del cliente) y el propio Create.
func (s *Service) Exists(ctx context.Context, nombre, cedula string) (bool, error) {
	nombre = strings.TrimSpace(nombre)
	cedula = strings.TrimSpace(cedula)
	if nombre == "" || cedula == "" {
		return false, ErrInvalidInput
	}
	return s.repo.ExistsByNameAndOwner(ctx, nombre, cedula)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Patient, error) {
	if id <= 0 {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListNames(ctx context.Context) ([]NameRow, error) {
	return s.repo.ListNames(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, cedula string) ([]Patient, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, cedula)
}

// OwnerCedulaOf expone la cédula del dueño de un paciente.
// Lo usa el resolver de historial para armar la vista por propietario
// sin acoplar los módulos por import directo.
func (s *Service) OwnerCedulaOf(ctx context.Context, id int64) (string, error) {
	if id <= 0 {
		return "", ErrInvalidInput
	}
	return s.repo.OwnerCedulaOf(ctx, id)
}

// Update aplica un update parcial con la allow-list de pacientes.
// Los numéricos presentes deben ser >= 0.
func (s *Service) Update(ctx context.Context, id int64, fields map[string]any) (int64, Patient, error) {
	if id <= 0 {
		return 0, Patient{}, ErrInvalidInput
	}

	filtered := make(map[string]any, len(fields))
	for _, k := range updateFields {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if numericFields[k] {
			if f, isNum := v.(float64); isNum && f < 0 {
				return 0, Patient{}, &ValidationError{Msg: k + " debe ser un número válido mayor o igual a 0"}
			}
		}
		filtered[k] = v
	}
	if len(filtered) == 0 {
		return 0, Patient{}, ErrNoFields
	}

	affected, err := s.repo.UpdateFields(ctx, id, filtered)
	if err != nil {
		return 0, Patient{}, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return affected, Patient{}, err
	}
	return affected, p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
