package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Alexandrudiun/spaces/pkg/client"
	"github.com/Alexandrudiun/spaces/pkg/logger"
)

type Config struct {
	DesksMongoURI string
	UsersMongoURI string
	DesksDatabase string
	UsersDatabase string
	MongoTimeout  time.Duration

	Port string

	JWTSecret    string
	JWTExpiresIn time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ImagesDir string

	RateLimitRPS   float64
	RateLimitBurst int

	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// best-effort .env for local development; real deployments set the
	// environment directly
	_ = godotenv.Load()

	cfg := &Config{
		DesksMongoURI: getEnvStr(EnvDesksMongoURI, DefaultDesksMongoURI),
		UsersMongoURI: getEnvStr(EnvUsersMongoURI, DefaultUsersMongoURI),
		DesksDatabase: getEnvStr(EnvDesksDatabase, DefaultDesksDatabase),
		UsersDatabase: getEnvStr(EnvUsersDatabase, DefaultUsersDatabase),
		MongoTimeout:  getEnvDuration(EnvMongoTimeout, DefaultMongoTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret:    getEnvStr(EnvJWTSecret, ""),
		JWTExpiresIn: getEnvDuration(EnvJWTExpiresIn, DefaultJWTExpiresIn),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		ImagesDir: getEnvStr(EnvImagesDirectory, DefaultImagesDir),

		RateLimitRPS:   getEnvFloat(EnvRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst: getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Connect opens both database connections. Kept separate from Load so tests
// can build a Config without touching Mongo.
func (cfg *Config) Connect() {
	cfg.Client.SetDesksMongo(cfg.Log, cfg.DesksMongoURI, cfg.MongoTimeout)
	cfg.Client.SetUsersMongo(cfg.Log, cfg.UsersMongoURI, cfg.MongoTimeout)
}

var mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	for name, uri := range map[string]string{"DesksMongoURI": cfg.DesksMongoURI, "UsersMongoURI": cfg.UsersMongoURI} {
		if uri == "" {
			problems = append(problems, name+" cannot be empty")
		} else if !mongoURIRegex.MatchString(uri) {
			problems = append(problems, fmt.Sprintf("%s must start with 'mongodb://' or 'mongodb+srv://', got: %s", name, uri))
		}
	}

	if cfg.DesksDatabase == "" {
		problems = append(problems, "DesksDatabase cannot be empty")
	}
	if cfg.UsersDatabase == "" {
		problems = append(problems, "UsersDatabase cannot be empty")
	}

	if cfg.JWTSecret == "" {
		problems = append(problems, "JWTSecret cannot be empty")
	}
	if cfg.JWTExpiresIn <= 0 {
		problems = append(problems, fmt.Sprintf("JWTExpiresIn must be positive, got: %s", cfg.JWTExpiresIn))
	}

	if cfg.MongoTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("MongoTimeout must be positive, got: %s", cfg.MongoTimeout))
	}
	if cfg.RateLimitRPS <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRPS must be positive, got: %f", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"desks_mongo_uri", redactMongoURI(cfg.DesksMongoURI),
		"users_mongo_uri", redactMongoURI(cfg.UsersMongoURI),
		"desks_database", cfg.DesksDatabase,
		"users_database", cfg.UsersDatabase,
		"mongo_conn_timeout", cfg.MongoTimeout,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_expires_in", cfg.JWTExpiresIn,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
		"images_dir", cfg.ImagesDir,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

var credentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
