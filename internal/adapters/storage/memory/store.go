package memory

import (
	"sync"

	"vet-clinic-records/internal/domain/history"
	"vet-clinic-records/internal/domain/owners"
	"vet-clinic-records/internal/domain/patients"
)

// Store guarda propietarios, pacientes y fichas en memoria compartiendo un
// solo lock: la vista completa del historial junta las tres tablas, así que
// los repos no pueden vivir en islas separadas como en Postgres.
// Sirve para dev sin BD y para los tests end-to-end.
type Store struct {
	mu sync.RWMutex

	owners map[string]owners.Owner

	patients      map[int64]patients.Patient
	nextPatientID int64

	entries     map[int64]history.Entry
	nextEntryID int64
}

func NewStore() *Store {
	return &Store{
		owners:   make(map[string]owners.Owner),
		patients: make(map[int64]patients.Patient),
		entries:  make(map[int64]history.Entry),
	}
}

func (s *Store) Owners() owners.Repository {
	return &ownersRepo{s: s}
}

func (s *Store) Patients() patients.Repository {
	return &patientsRepo{s: s}
}

func (s *Store) History() history.Repository {
	return &historyRepo{s: s}
}
