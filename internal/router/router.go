package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	mem "vet-clinic-records/internal/adapters/storage/memory"
	pg "vet-clinic-records/internal/adapters/storage/postgres"
	"vet-clinic-records/internal/domain/history"
	"vet-clinic-records/internal/domain/owners"
	"vet-clinic-records/internal/domain/patients"
	"vet-clinic-records/internal/middleware"
	"vet-clinic-records/internal/ports/auth"
	"vet-clinic-records/internal/proxy"
	"vet-clinic-records/internal/upload"
)

type Options struct {
	TokenParser auth.TokenParser // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Base del API externo para los endpoints proxied. Vacía => los proxies
	// responden 400 CONFIG_MISSING sin intentar conexión.
	ExternalAPIBase string

	// Directorio de imágenes subidas. Vacío => /upload deshabilitado.
	UploadDir string

	Logger *zerolog.Logger
}

func NewRouter(opts Options) http.Handler {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.SessionContext(opts.TokenParser))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	var (
		ownersRepo   owners.Repository
		patientsRepo patients.Repository
		historyRepo  history.Repository
	)

	if db != nil {
		ownersRepo = pg.NewOwnersRepo(db)
		patientsRepo = pg.NewPatientsRepo(db)
		historyRepo = pg.NewHistoryRepo(db)
	} else {
		store := mem.NewStore()
		ownersRepo = store.Owners()
		patientsRepo = store.Patients()
		historyRepo = store.History()
	}

	// Services por módulo. El de historial necesita resolver la cédula del
	// dueño de un paciente; se le pasa el service de pacientes como port.
	ownersSvc := owners.NewService(ownersRepo)
	patientsSvc := patients.NewService(patientsRepo, ownersSvc)
	historySvc := history.NewService(historyRepo, patientsSvc, log)

	owners.RegisterRoutes(r, ownersSvc, log)
	patients.RegisterRoutes(r, patientsSvc, log)
	history.RegisterRoutes(r, historySvc, log)

	// Entidades que viven en el API externo: passthrough, no CRUD local.
	proxy.RegisterRoutes(r, proxy.New(opts.ExternalAPIBase, log))

	if opts.UploadDir != "" {
		r.Post("/upload", upload.Handler(opts.UploadDir, log))
		r.Handle("/uploads/*", upload.ServeFiles(opts.UploadDir))
	}

	return r
}
