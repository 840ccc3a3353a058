package history

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("history entry not found")
	ErrNoFields     = errors.New("no fields to update")
)

// updateFields es la allow-list del update parcial de fichas.
// El orden define el orden de columnas en el SET generado.
var updateFields = []string{"motivo_consulta", "diagnostico", "tratamiento", "imagen_url", "imagen_name"}

// PatientOwners es lo único que el resolver necesita del módulo de pacientes:
// a qué cédula pertenece un paciente.
type PatientOwners interface {
	OwnerCedulaOf(ctx context.Context, id int64) (string, error)
}

type Service struct {
	repo     Repository
	patients PatientOwners
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientOwners, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, log: log}
}

// Filter son los identificadores opcionales del resolver. historial_id gana
// sobre paciente_id; sin ninguno se resuelve el listado global.
type Filter struct {
	HistorialID *int64
	PacienteID  *int64
}

// Result lleva las filas de la primera estrategia que produjo datos.
// Exactamente uno de View/Entries viene poblado (o ambos vacíos: sin datos).
type Result struct {
	View    []ViewRow
	Entries []EntryRow
}

func (r Result) Empty() bool {
	return len(r.View) == 0 && len(r.Entries) == 0
}

// Rows devuelve las filas listas para serializar; vacío => array vacío,
// nunca null.
func (r Result) Rows() any {
	if r.View != nil {
		return r.View
	}
	if r.Entries != nil {
		return r.Entries
	}
	return []EntryRow{}
}

// strategy es un nivel de la cadena de consulta: un nombre para el log y la
// consulta en sí. El resolver las prueba en orden.
type strategy struct {
	name string
	run  func(ctx context.Context) (Result, error)
}

// Resolve ejecuta la cadena de estrategias para el filtro dado y devuelve el
// resultado más informativo disponible:
//   - en niveles intermedios, un error o cero filas pasa al siguiente nivel
//     (el error se loguea y se traga: degradación, no falla);
//   - el último nivel es autoritativo: su error sube al caller y su resultado
//     vacío es un éxito con data vacía.
func (s *Service) Resolve(ctx context.Context, f Filter) (Result, error) {
	strategies := s.strategiesFor(f)
	last := len(strategies) - 1

	for i, st := range strategies {
		res, err := st.run(ctx)
		if i == last {
			return res, err
		}
		if err != nil {
			s.log.Warn().Err(err).Str("strategy", st.name).Msg("historial: estrategia falló, degradando")
			continue
		}
		if res.Empty() {
			continue
		}
		return res, nil
	}

	return Result{}, nil
}

func (s *Service) strategiesFor(f Filter) []strategy {
	// historial_id: una sola forma, cero filas es éxito.
	if f.HistorialID != nil {
		id := *f.HistorialID
		return []strategy{{
			name: "entry_by_id",
			run: func(ctx context.Context) (Result, error) {
				rows, err := s.repo.EntryByID(ctx, id)
				return Result{Entries: rows}, err
			},
		}}
	}

	// paciente_id: vista por cédula del dueño, con fallback a fichas del
	// paciente. Si el paciente no existe o no tiene dueño consistente, la
	// primera estrategia falla y la cadena degrada sola.
	if f.PacienteID != nil {
		pid := *f.PacienteID
		return []strategy{
			{
				name: "view_by_owner_of_patient",
				run: func(ctx context.Context) (Result, error) {
					cedula, err := s.patients.OwnerCedulaOf(ctx, pid)
					if err != nil {
						return Result{}, err
					}
					rows, err := s.repo.ViewByOwner(ctx, cedula)
					return Result{View: rows}, err
				},
			},
			{
				name: "entries_by_patient",
				run: func(ctx context.Context) (Result, error) {
					rows, err := s.repo.EntriesByPatient(ctx, pid)
					return Result{Entries: rows}, err
				},
			},
		}
	}

	// Sin filtros: vista completa, con fallback al listado plano.
	return []strategy{
		{
			name: "view_all",
			run: func(ctx context.Context) (Result, error) {
				rows, err := s.repo.ViewAll(ctx)
				return Result{View: rows}, err
			},
		},
		{
			name: "all_entries",
			run: func(ctx context.Context) (Result, error) {
				rows, err := s.repo.AllEntries(ctx)
				return Result{Entries: rows}, err
			},
		},
	}
}

type CreateInput struct {
	MotivoConsulta     string
	Diagnostico        *string
	Tratamiento        *string
	ImagenURL          *string
	ImagenName         *string
	PacientesIDMascota int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	in.MotivoConsulta = strings.TrimSpace(in.MotivoConsulta)
	if in.MotivoConsulta == "" || in.PacientesIDMascota <= 0 {
		return 0, ErrInvalidInput
	}

	return s.repo.Insert(ctx, Entry{
		MotivoConsulta:     in.MotivoConsulta,
		Diagnostico:        in.Diagnostico,
		Tratamiento:        in.Tratamiento,
		ImagenURL:          in.ImagenURL,
		ImagenName:         in.ImagenName,
		PacientesIDMascota: in.PacientesIDMascota,
	})
}

// UpdateOutcome es el resultado del update parcial: cuántas filas tocó el
// UPDATE y la relectura lista para mostrar.
type UpdateOutcome struct {
	AffectedRows int64
	Result
}

// Update aplica el update parcial por id con la allow-list de fichas y relee
// la fila actualizada, preferentemente vía la vista completa (display-ready),
// degradando a la ficha pelada si la vista no está disponible.
func (s *Service) Update(ctx context.Context, id int64, fields map[string]any) (UpdateOutcome, error) {
	if id <= 0 {
		return UpdateOutcome{}, ErrInvalidInput
	}

	filtered := make(map[string]any, len(fields))
	for _, k := range updateFields {
		if v, ok := fields[k]; ok {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return UpdateOutcome{}, ErrNoFields
	}

	affected, err := s.repo.UpdateFields(ctx, id, filtered)
	if err != nil {
		return UpdateOutcome{}, err
	}

	res, err := s.readAfterUpdate(ctx, id)
	if err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{AffectedRows: affected, Result: res}, nil
}

// readAfterUpdate intenta devolver la vista por cédula del dueño; cualquier
// tropiezo intermedio se loguea y se degrada a la lectura simple por id, cuyo
// error sí sube.
func (s *Service) readAfterUpdate(ctx context.Context, id int64) (Result, error) {
	pid, err := s.repo.PatientIDOf(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("historial_id", id).Msg("historial: no se pudo resolver paciente tras update")
	} else {
		cedula, err := s.patients.OwnerCedulaOf(ctx, pid)
		if err != nil {
			s.log.Warn().Err(err).Int64("paciente_id", pid).Msg("historial: no se pudo resolver cédula tras update")
		} else {
			rows, err := s.repo.ViewByOwner(ctx, cedula)
			if err != nil {
				s.log.Warn().Err(err).Str("cedula", cedula).Msg("historial: vista no disponible tras update")
			} else if len(rows) > 0 {
				return Result{View: rows}, nil
			}
		}
	}

	rows, err := s.repo.EntryByID(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{Entries: rows}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
