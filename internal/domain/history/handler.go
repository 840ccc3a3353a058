package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vet-clinic-records/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service, log zerolog.Logger) {
	r.Route("/historial_medico", func(hr chi.Router) {
		hr.Get("/", resolveHistoryHandler(svc, log))
		hr.Post("/", createHistoryHandler(svc, log))
		hr.Put("/", updateHistoryHandler(svc, log))
		hr.Delete("/{id}", deleteHistoryHandler(svc, log))
	})
}

type createHistoryRequest struct {
	MotivoConsulta     string  `json:"motivo_consulta"`
	Diagnostico        *string `json:"diagnostico"`
	Tratamiento        *string `json:"tratamiento"`
	ImagenURL          *string `json:"imagen_url"`
	ImagenName         *string `json:"imagen_name"`
	PacientesIDMascota int64   `json:"pacientes_id_mascota"`
}

func resolveHistoryHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var f Filter
		if raw := q.Get("historial_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo historial_id debe ser numérico")
				return
			}
			f.HistorialID = &id
		} else if raw := q.Get("paciente_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo paciente_id debe ser numérico")
				return
			}
			f.PacienteID = &id
		}
		// ?vista sin otros filtros cae en el listado global; el resolver ya
		// intenta la vista completa primero.

		res, err := svc.Resolve(r.Context(), f)
		if err != nil {
			log.Error().Err(err).Msg("resolve historial_medico")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": res.Rows()})
	}
}

func createHistoryHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createHistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		id, err := svc.Create(r.Context(), CreateInput{
			MotivoConsulta:     req.MotivoConsulta,
			Diagnostico:        req.Diagnostico,
			Tratamiento:        req.Tratamiento,
			ImagenURL:          req.ImagenURL,
			ImagenName:         req.ImagenName,
			PacientesIDMascota: req.PacientesIDMascota,
		})
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "Motivo y paciente son obligatorios")
			return
		case err != nil:
			log.Error().Err(err).Msg("create historial_medico")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "insertId": id})
	}
}

func updateHistoryHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Mapa crudo para distinguir "campo ausente" (no tocar) de
		// "campo presente con null" (poner NULL).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		rawID, ok := raw["id"]
		if !ok {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo id es obligatorio para actualizar")
			return
		}
		var id int64
		if err := json.Unmarshal(rawID, &id); err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo id debe ser numérico")
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
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo "+k+" debe ser texto")
				return
			}
			fields[k] = s
		}

		out, err := svc.Update(r.Context(), id, fields)
		switch {
		case errors.Is(err, ErrNoFields):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "No hay campos para actualizar")
			return
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo id debe ser numérico")
			return
		case err != nil:
			log.Error().Err(err).Msg("update historial_medico")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"affectedRows": out.AffectedRows,
			"data":         out.Rows(),
		})
	}
}

func deleteHistoryHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "El campo id debe ser numérico")
			return
		}

		affected, err := svc.Delete(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Msg("delete historial_medico")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "affectedRows": affected})
	}
}
