package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
	}
	JWT struct {
		SecretKey string
		Algorithm string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
		Enabled  bool
	}
	Storage struct {
		Backend   string // "minio" or "s3"
		Bucket    string
		PublicURL string
	}
	Minio struct {
		Endpoint     string
		RootUser     string
		RootPassword string
		UseSSL       bool
	}
	S3 struct {
		Endpoint  string
		Region    string
		AccessKey string
		SecretKey string
	}
	Upload struct {
		MaxBytes          int64
		AllowedMimeTypes  []string
		AllowedExtensions []string
	}
	RateLimit struct {
		MaxRequests int
		WindowMS    int64
		GlobalLimit int
	}
	ExternalService struct {
		AuthorizationServiceURL string
	}
	Grafana struct {
		OTLPEndpoint string
		// Insecure is set only for http:// endpoints; exporters use TLS otherwise.
		Insecure     bool
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	HTTPPort string
}

var (
	defaultAllowedOrigins = []string{
		"https://notaproblemtosolve.supabase.co",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	defaultMimeTypes  = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	defaultExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.JWT.Algorithm = os.Getenv("JWT_ALGORITHM")
	if config.JWT.Algorithm == "" {
		config.JWT.Algorithm = "HS256"
	}

	config.CORS.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = defaultAllowedOrigins
	}

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	if config.Redis.RedisHost == "" {
		config.Redis.RedisHost = "localhost"
	}
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ is optional; upload events are skipped when no host is configured.
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	config.RabbitMQ.Enabled = config.RabbitMQ.Host != ""
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// Storage
	config.Storage.Backend = strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "minio"
	}
	config.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	if config.Storage.Bucket == "" {
		config.Storage.Bucket = "images"
	}
	config.Storage.PublicURL = strings.TrimSuffix(os.Getenv("STORAGE_PUBLIC_URL"), "/")

	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.UseSSL = parseBool(os.Getenv("MINIO_USE_SSL"))

	config.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	config.S3.Region = os.Getenv("S3_REGION")
	if config.S3.Region == "" {
		config.S3.Region = "us-east-1"
	}
	config.S3.AccessKey = os.Getenv("S3_ACCESS_KEY")
	config.S3.SecretKey = os.Getenv("S3_SECRET_KEY")

	if config.Storage.PublicURL == "" {
		switch {
		case config.Storage.Backend == "s3" && config.S3.Endpoint != "":
			config.Storage.PublicURL = strings.TrimSuffix(config.S3.Endpoint, "/")
		case config.Minio.Endpoint != "":
			scheme := "http://"
			if config.Minio.UseSSL {
				scheme = "https://"
			}
			config.Storage.PublicURL = scheme + config.Minio.Endpoint
		}
	}

	// Upload policy
	config.Upload.MaxBytes = 5 * 1024 * 1024
	if val := os.Getenv("UPLOAD_MAX_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			config.Upload.MaxBytes = n
		}
	}
	config.Upload.AllowedMimeTypes = splitList(os.Getenv("UPLOAD_ALLOWED_MIME_TYPES"))
	if len(config.Upload.AllowedMimeTypes) == 0 {
		config.Upload.AllowedMimeTypes = defaultMimeTypes
	}
	config.Upload.AllowedExtensions = splitList(strings.ToLower(os.Getenv("UPLOAD_ALLOWED_EXTENSIONS")))
	if len(config.Upload.AllowedExtensions) == 0 {
		config.Upload.AllowedExtensions = defaultExtensions
	}

	// Rate limiting
	config.RateLimit.MaxRequests = parseIntDefault(os.Getenv("RATE_LIMIT_MAX_REQUESTS"), 10)
	config.RateLimit.GlobalLimit = parseIntDefault(os.Getenv("RATE_LIMIT_GLOBAL"), 100)
	config.RateLimit.WindowMS = 60 * 60 * 1000
	if val := os.Getenv("RATE_LIMIT_WINDOW_MS"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			config.RateLimit.WindowMS = n
		}
	}

	config.ExternalService.AuthorizationServiceURL = strings.TrimSuffix(os.Getenv("AUTHORIZATION_SERVICE_URL"), "/")

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
		config.Grafana.Insecure = true
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "upload-gateway"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.HTTPPort = os.Getenv("HTTP_PORT")
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	return &config
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(raw string) bool {
	b, _ := strconv.ParseBool(raw)
	return b
}
