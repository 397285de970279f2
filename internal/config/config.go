package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Drivers de persistencia soportados.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	ServiceName       string
	Port              string
	DatabaseURL       string
	StoreDriver       string
	CORSAllowedOrigin string
	LogLevel          string
	RequestTimeout    time.Duration
}

// Load lee variables de entorno y valida lo mínimo indispensable.
func Load() (Config, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}
	// Normalizamos por si alguien manda ":8000"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	switch driver {
	case "":
		driver = driverFromURL(databaseURL)
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}

	timeout := 10 * time.Second
	if value := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT %q", value)
		}
		timeout = parsed
	}

	return Config{
		ServiceName:       getEnv("SERVICE_NAME", "items-api"),
		Port:              port,
		DatabaseURL:       databaseURL,
		StoreDriver:       driver,
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		RequestTimeout:    timeout,
	}, nil
}

// driverFromURL deduce el driver a partir del esquema de la URL.
// Todo lo que no sea postgres se trata como ruta/DSN de SQLite.
func driverFromURL(databaseURL string) string {
	lower := strings.ToLower(databaseURL)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
