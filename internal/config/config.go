package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del proceso, leída de env (con .env
// opcional para dev). Los parámetros de BD tienen defaults locales; la base
// del API externo NO tiene default: su ausencia hace fallar los endpoints
// proxied con 400, nunca se intenta conexión.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	ExternalAPIBase string

	UploadDir string
}

// Load lee .env si existe y arma la Config desde env vars.
func Load() Config {
	// .env es opcional; en producción las vars vienen del entorno.
	_ = godotenv.Load()

	return Config{
		Port: getenv("PORT", "8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "usuarios_db"),
		DBPort:     getenv("DB_PORT", "5432"),

		ExternalAPIBase: strings.TrimRight(strings.TrimSpace(os.Getenv("EXTERNAL_API_BASE")), "/"),

		UploadDir: getenv("UPLOAD_DIR", "uploads"),
	}
}

// DSN arma la cadena de conexión Postgres a partir de los params de BD.
// Si DB_DSN viene seteada completa, gana sobre los campos individuales.
func (c Config) DSN() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
