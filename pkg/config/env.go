package config

const (
	EnvDesksMongoURI = "MONGO_DESKS_URI"
	EnvUsersMongoURI = "MONGO_USERS_URI"
	EnvDesksDatabase = "MONGO_DESKS_DATABASE"
	EnvUsersDatabase = "MONGO_USERS_DATABASE"
	EnvMongoTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiresIn = "JWT_EXPIRES_IN"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvKafkaTopic      = "KAFKA_BOOKING_TOPIC"
	EnvImagesDirectory = "IMAGES_DIR"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
