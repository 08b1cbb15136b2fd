package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del portal (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	DB     DBConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	Auth   AuthConfig
	Upload UploadConfig
	S3     S3Config
	Notify NotifyConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si los errores internos deben ocultarse al cliente.
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Drivers de almacén soportados.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// StoreConfig selecciona el almacén de registros.
type StoreConfig struct {
	Driver string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// MongoConfig conexión al almacén de documentos.
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AuthConfig contraseña compartida del login. Si hay hash bcrypt se usa en lugar del texto plano.
type AuthConfig struct {
	SharedPassword     string
	SharedPasswordHash string
}

// UploadConfig límites de carga.
type UploadConfig struct {
	MaxBytes int64
}

// S3Config host externo de objetos; Bucket vacío lo deshabilita.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// multipartOverhead margen para los campos de texto y delimitadores del formulario.
const multipartOverhead = 1 << 20

// BodyLimit límite del cuerpo HTTP en bytes: nunca menor que la carga máxima
// más el margen multipart, para que la política de carga siempre sea alcanzable.
func (c *Config) BodyLimit() int {
	limit := c.HTTP.BodyLimitMB * 1024 * 1024
	if floor := int(c.Upload.MaxBytes) + multipartOverhead; limit < floor {
		limit = floor
	}
	return limit
}

// Enabled indica si hay host externo configurado.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Transportes de notificación.
const (
	TransportWebSocket = "websocket"
	TransportPolling   = "polling"
)

// NotifyConfig entrega de eventos y descarga de URLs externas.
type NotifyConfig struct {
	Transport        string
	DownloadExternal string // redirect | strict
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "portal-imagenes"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 12),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", DriverPostgres)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "portal_imagenes"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGODB_URI", "mongodb://localhost:27017"),
			Database: getString(v, "MONGODB_DATABASE", "bg_remover_portal"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "portal-imagenes"),
		},
		Auth: AuthConfig{
			SharedPassword:     getString(v, "AUTH_SHARED_PASSWORD", ""),
			SharedPasswordHash: getString(v, "AUTH_SHARED_PASSWORD_HASH", ""),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getInt(v, "UPLOAD_MAX_BYTES", 10*1024*1024)),
		},
		S3: S3Config{
			Bucket:          getString(v, "S3_BUCKET", ""),
			Region:          getString(v, "S3_REGION", "us-east-1"),
			Endpoint:        getString(v, "S3_ENDPOINT", ""),
			PublicBaseURL:   getString(v, "S3_PUBLIC_BASE_URL", ""),
			AccessKeyID:     getString(v, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "S3_SECRET_ACCESS_KEY", ""),
		},
		Notify: NotifyConfig{
			Transport:        strings.ToLower(getString(v, "NOTIFY_TRANSPORT", TransportWebSocket)),
			DownloadExternal: strings.ToLower(getString(v, "DOWNLOAD_EXTERNAL", "redirect")),
		},
	}
	return cfg, cfg.Validate()
}

// Validate verifica valores enumerados.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	switch c.Notify.Transport {
	case TransportWebSocket, TransportPolling:
	default:
		return fmt.Errorf("config: NOTIFY_TRANSPORT desconocido %q", c.Notify.Transport)
	}
	if c.Notify.DownloadExternal != "redirect" && c.Notify.DownloadExternal != "strict" {
		return fmt.Errorf("config: DOWNLOAD_EXTERNAL desconocido %q", c.Notify.DownloadExternal)
	}
	return nil
}

// ValidateAPI verifica los secretos que solo necesita el servidor HTTP.
func (c *Config) ValidateAPI() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: JWT_SECRET requerido")
	}
	if c.Auth.SharedPassword == "" && c.Auth.SharedPasswordHash == "" {
		return fmt.Errorf("config: AUTH_SHARED_PASSWORD o AUTH_SHARED_PASSWORD_HASH requerido")
	}
	return nil
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
