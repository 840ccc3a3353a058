package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vet-clinic-records/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service, log zerolog.Logger) {
	r.Route("/pacientes", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc, log))
		pr.Post("/check", checkPatientHandler(svc, log))
		pr.Get("/list", listPatientNamesHandler(svc, log))
		pr.Get("/owner/{cedula}", listPatientsByOwnerHandler(svc, log))

		pr.Get("/{id}", getPatientHandler(svc, log))
		pr.Put("/{id}", updatePatientHandler(svc, log))
		pr.Delete("/{id}", deletePatientHandler(svc, log))
	})
}

type patientResponse struct {
	ID                 int64    `json:"id_mascota"`
	Nombre             string   `json:"nombre"`
	Especie            string   `json:"especie"`
	Raza               string   `json:"raza"`
	Edad               *float64 `json:"edad"`
	Peso               *float64 `json:"peso"`
	Altura             *float64 `json:"altura"`
	PropietariosCedula string   `json:"propietarios_cedula"`
}

type createPatientRequest struct {
	NombreMascota string         `json:"nombreMascota"`
	Especie       string         `json:"especie"`
	Raza          string         `json:"raza"`
	Edad          OptionalNumber `json:"edad"`
	Peso          OptionalNumber `json:"peso"`
	Altura        OptionalNumber `json:"altura"`

	// El formulario manda cedulaPropietario; el nombre de columna viaja como
	// propietarios_cedula. Se aceptan ambos.
	CedulaPropietario  string `json:"cedulaPropietario"`
	PropietariosCedula string `json:"propietarios_cedula"`
}

type checkPatientRequest struct {
	Nombre             string `json:"nombre"`
	PropietariosCedula string `json:"propietarios_cedula"`
}

func createPatientHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido: "+err.Error())
			return
		}

		cedula := strings.TrimSpace(req.PropietariosCedula)
		if cedula == "" {
			cedula = strings.TrimSpace(req.CedulaPropietario)
		}

		id, err := svc.Create(r.Context(), CreateInput{
			Nombre:             req.NombreMascota,
			Especie:            req.Especie,
			Raza:               req.Raza,
			Edad:               req.Edad.Value,
			Peso:               req.Peso.Value,
			Altura:             req.Altura.Value,
			PropietariosCedula: cedula,
		})

		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, ve.Msg)
			return
		case errors.Is(err, ErrOwnerNotFound):
			respond.Error(w, http.StatusBadRequest, respond.CodeOwnerNotFound, "Cédula no encontrada en la base de datos. Ingrese una cédula existente.")
			return
		case errors.Is(err, ErrDuplicate):
			respond.Error(w, http.StatusConflict, respond.CodeDuplicatePatient, "Paciente ya registrado para este propietario")
			return
		case err != nil:
			log.Error().Err(err).Msg("create paciente")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "insertId": id})
	}
}

func checkPatientHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		exists, err := svc.Exists(r.Context(), req.Nombre, req.PropietariosCedula)
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "Nombre y cédula son obligatorios")
			return
		case err != nil:
			log.Error().Err(err).Msg("check paciente")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"exists": exists})
	}
}

func listPatientNamesHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListNames(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list pacientes")
			respond.ServerError(w)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
	}
}

func listPatientsByOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cedula := chi.URLParam(r, "cedula")

		items, err := svc.ListByOwner(r.Context(), cedula)
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "La cédula es obligatoria")
			return
		case err != nil:
			log.Error().Err(err).Msg("list pacientes by owner")
			respond.ServerError(w)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
	}
}

func getPatientHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound):
			respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": []patientResponse{}})
			return
		case err != nil:
			log.Error().Err(err).Msg("get paciente")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": []patientResponse{toPatientResponse(p)}})
	}
}

func updatePatientHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		fields := make(map[string]any, len(raw))
		for _, k := range updateFields {
			v, present := raw[k]
			if !present {
				continue
			}
			if string(v) == "null" {
				fields[k] = nil
				continue
			}
			if numericFields[k] {
				var n OptionalNumber
				if err := json.Unmarshal(v, &n); err != nil {
					respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo "+k+" debe ser numérico")
					return
				}
				if n.Value == nil {
					fields[k] = nil
				} else {
					fields[k] = *n.Value
				}
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo "+k+" debe ser texto")
				return
			}
			fields[k] = s
		}

		affected, p, err := svc.Update(r.Context(), id, fields)
		var ve *ValidationError
		switch {
		case errors.Is(err, ErrNoFields):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "No hay campos para actualizar")
			return
		case errors.As(err, &ve):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, ve.Msg)
			return
		case errors.Is(err, ErrNotFound):
			respond.JSON(w, http.StatusOK, map[string]any{"success": true, "affectedRows": affected, "data": []patientResponse{}})
			return
		case err != nil:
			log.Error().Err(err).Msg("update paciente")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"affectedRows": affected,
			"data":         []patientResponse{toPatientResponse(p)},
		})
	}
}

func deletePatientHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		affected, err := svc.Delete(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Msg("delete paciente")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "affectedRows": affected})
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo id debe ser numérico")
		return 0, false
	}
	return id, true
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		Especie:            p.Especie,
		Raza:               p.Raza,
		Edad:               p.Edad,
		Peso:               p.Peso,
		Altura:             p.Altura,
		PropietariosCedula: p.PropietariosCedula,
	}
}
