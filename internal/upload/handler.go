package upload

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vet-clinic-records/internal/platform/respond"
)

// maxUploadBytes limita el tamaño de imagen aceptado.
const maxUploadBytes = 10 << 20

// Handler guarda la imagen del form multipart (campo "file") bajo dir y
// devuelve su URL pública. El nombre guardado lleva un prefijo uuid para no
// pisar archivos con el mismo nombre.
func Handler(dir string, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		file, header, err := r.FormFile("file")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, respond.CodeValidation, "No file provided")
			return
		}
		defer file.Close()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("upload: no se pudo crear el directorio")
			respond.ServerError(w)
			return
		}

		stored := uuid.NewString() + "-" + sanitizeName(header.Filename)
		dstPath := filepath.Join(dir, stored)

		dst, err := os.Create(dstPath)
		if err != nil {
			log.Error().Err(err).Str("path", dstPath).Msg("upload: no se pudo crear el archivo")
			respond.ServerError(w)
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			log.Error().Err(err).Str("path", dstPath).Msg("upload: error escribiendo archivo")
			_ = os.Remove(dstPath)
			respond.ServerError(w)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"url":     "/uploads/" + stored,
			"name":    header.Filename,
		})
	}
}

// ServeFiles expone el directorio de uploads en /uploads/*.
func ServeFiles(dir string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
}

// sanitizeName deja solo caracteres seguros para nombre de archivo.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
