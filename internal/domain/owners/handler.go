package owners

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vet-clinic-records/internal/middleware"
	"vet-clinic-records/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service, log zerolog.Logger) {
	r.Route("/propietarios", func(pr chi.Router) {
		pr.Get("/", listOwnersHandler(svc, log))
		pr.Post("/", createOwnerHandler(svc, log))
		pr.Post("/check", checkOwnerHandler(svc, log))

		pr.Get("/{cedula}", getOwnerHandler(svc, log))
		pr.Put("/{cedula}", updateOwnerHandler(svc, log))
		pr.Delete("/{cedula}", deleteOwnerHandler(svc, log))
	})
}

type ownerResponse struct {
	Cedula    string `json:"cedula"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
}

type createOwnerRequest struct {
	Cedula    string `json:"cedula"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
}

type checkOwnerRequest struct {
	Cedula string `json:"cedula"`
}

func listOwnersHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("list propietarios")
			respond.ServerError(w)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}
		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
	}
}

func createOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		o, err := svc.Create(r.Context(), CreateInput{
			Cedula:    req.Cedula,
			Nombre:    req.Nombre,
			Apellido:  req.Apellido,
			Telefono:  req.Telefono,
			Direccion: req.Direccion,
		})
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "Cédula, nombre y apellido son obligatorios")
			return
		case errors.Is(err, ErrDuplicate):
			respond.Error(w, http.StatusConflict, respond.CodeValidation, "Propietario ya registrado")
			return
		case err != nil:
			log.Error().Err(err).Msg("create propietario")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": toOwnerResponse(o)})
	}
}

func checkOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Cedula) == "" {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "La cédula es obligatoria")
			return
		}

		exists, err := svc.Exists(r.Context(), req.Cedula)
		if err != nil {
			log.Error().Err(err).Msg("check propietario")
			respond.ServerError(w)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"exists": exists})
	}
}

func getOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cedula := chi.URLParam(r, "cedula")

		o, err := svc.GetByCedula(r.Context(), cedula)
		switch {
		case errors.Is(err, ErrNotFound):
			// Lecturas sin match devuelven data vacía, no error.
			respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": []ownerResponse{}})
			return
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "La cédula es obligatoria")
			return
		case err != nil:
			log.Error().Err(err).Msg("get propietario")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"success": true, "data": []ownerResponse{toOwnerResponse(o)}})
	}
}

func updateOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cedula := chi.URLParam(r, "cedula")

		// Decodificar a mapa crudo para distinguir "campo ausente" de
		// "campo presente con null".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "JSON inválido")
			return
		}

		fields := make(map[string]any, len(raw))
		for _, k := range updateFields {
			v, ok := raw[k]
			if !ok {
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

		affected, o, err := svc.Update(r.Context(), cedula, fields)
		switch {
		case errors.Is(err, ErrNoFields):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "No hay campos para actualizar")
			return
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "La cédula es obligatoria")
			return
		case errors.Is(err, ErrNotFound):
			respond.JSON(w, http.StatusOK, map[string]any{"success": true, "affectedRows": affected, "data": []ownerResponse{}})
			return
		case err != nil:
			log.Error().Err(err).Msg("update propietario")
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"affectedRows": affected,
			"data":         []ownerResponse{toOwnerResponse(o)},
		})
	}
}

// deleteOwnerHandler borra un propietario. Caso especial: si la cédula
// borrada es la de la sesión actual, además se expiran las cookies de sesión
// (el usuario queda deslogueado).
func deleteOwnerHandler(svc *Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cedula := strings.TrimSpace(chi.URLParam(r, "cedula"))

		affected, err := svc.Delete(r.Context(), cedula)
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "La cédula es obligatoria")
			return
		case err != nil:
			log.Error().Err(err).Msg("delete propietario")
			respond.ServerError(w)
			return
		}

		loggedOut := false
		if claims, ok := middleware.GetClaims(r.Context()); ok && claims.Cedula == cedula {
			expireSessionCookies(w)
			loggedOut = true
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"affectedRows": affected,
			"loggedOut":    loggedOut,
		})
	}
}

func expireSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.SessionCookie, "userInfo"} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		Cedula:    o.Cedula,
		Nombre:    o.Nombre,
		Apellido:  o.Apellido,
		Telefono:  o.Telefono,
		Direccion: o.Direccion,
	}
}
