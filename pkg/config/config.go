package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	UNAS UNASConfig
	Sync SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host               string
	Port               int
	AllowedOrigin      string // origen permitido para CORS; "*" en desarrollo
	RateLimitPerMinute int    // peticiones por minuto por IP
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UNASConfig credenciales y endpoint del catálogo remoto UNAS.
type UNASConfig struct {
	APIURL       string        // base del API, ej. https://api.unas.eu/shop
	APIKey       string        // clave compartida que se intercambia por el bearer token
	ReadTimeout  time.Duration // timeout de lecturas (login, getProducts, getProduct)
	WriteTimeout time.Duration // timeout de escrituras (setStock)
}

// SyncConfig parámetros del motor de conciliación y del despachador.
type SyncConfig struct {
	LookupConcurrency  int      // peticiones simultáneas máximas del pool de lookups
	ChunkSize          int      // tamaño de lote para setStock
	WarehouseLocations []string // allow-list de códigos de ubicación de almacén (vacío = sin filtro)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, UNAS_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "agrolanc-stocksync"),
		},
		HTTP: HTTPConfig{
			Host:               getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:               getInt(v, "HTTP_PORT", 8080),
			AllowedOrigin:      getString(v, "HTTP_ALLOWED_ORIGIN", "*"),
			RateLimitPerMinute: getInt(v, "HTTP_RATE_LIMIT_PER_MINUTE", 60),
		},
		UNAS: UNASConfig{
			APIURL:       strings.TrimSpace(getString(v, "UNAS_API_URL", "https://api.unas.eu/shop")),
			APIKey:       getString(v, "UNAS_API_KEY", ""),
			ReadTimeout:  time.Duration(getInt(v, "UNAS_READ_TIMEOUT_SECONDS", 20)) * time.Second,
			WriteTimeout: time.Duration(getInt(v, "UNAS_WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Sync: SyncConfig{
			LookupConcurrency:  getInt(v, "SYNC_LOOKUP_CONCURRENCY", 8),
			ChunkSize:          getInt(v, "SYNC_CHUNK_SIZE", 100),
			WarehouseLocations: splitList(getString(v, "SYNC_WAREHOUSE_LOCATIONS", "")),
		},
	}

	if cfg.Sync.LookupConcurrency < 1 {
		cfg.Sync.LookupConcurrency = 1
	}
	if cfg.Sync.ChunkSize < 1 {
		cfg.Sync.ChunkSize = 100
	}

	return cfg, nil
}

// splitList separa una lista separada por comas, descartando entradas vacías.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
