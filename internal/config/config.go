package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración necesaria para correr la API.
type Config struct {
	Port        string
	DatabaseURL string
	Log         LogConfig
}

// AdminConfig agrupa la configuración de la herramienta de administración (TUI).
type AdminConfig struct {
	APIBaseURL string
	APITimeout time.Duration
	PageSize   int
	Log        LogConfig
}

// LogConfig define cómo se construye el logger.
// File vacío significa salida por consola.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// newViper prepara una instancia aislada: variables de entorno primero y,
// si existe, un config.yaml en el directorio actual o en ./config.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("page_size", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

// Load lee la configuración de la API y valida lo mínimo indispensable.
func Load() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}

	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		port = "8080"
	}
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(v.GetString("database_url"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	return Config{
		Port:        port,
		DatabaseURL: databaseURL,
		Log:         loadLog(v, ""),
	}, nil
}

// LoadAdmin lee la configuración del cliente de administración.
// Por defecto el log va a admin.log porque la terminal la ocupa la interfaz.
func LoadAdmin() (AdminConfig, error) {
	v, err := newViper()
	if err != nil {
		return AdminConfig{}, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(v.GetString("api.base_url")), "/")
	if baseURL == "" {
		return AdminConfig{}, fmt.Errorf("missing required env var: API_BASE_URL")
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("api.timeout")))
	if err != nil || timeout <= 0 {
		return AdminConfig{}, fmt.Errorf("invalid API_TIMEOUT: %q", v.GetString("api.timeout"))
	}

	pageSize := v.GetInt("page_size")
	if pageSize < 1 {
		return AdminConfig{}, fmt.Errorf("invalid PAGE_SIZE: %d", pageSize)
	}

	return AdminConfig{
		APIBaseURL: baseURL,
		APITimeout: timeout,
		PageSize:   pageSize,
		Log:        loadLog(v, "admin.log"),
	}, nil
}

func loadLog(v *viper.Viper, defaultFile string) LogConfig {
	file := strings.TrimSpace(v.GetString("log.file"))
	if file == "" {
		file = defaultFile
	}
	return LogConfig{
		Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		File:   file,
	}
}
