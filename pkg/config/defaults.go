package config

import "time"

const (
	DefaultDesksMongoURI = "mongodb://localhost:27017"
	DefaultUsersMongoURI = "mongodb://localhost:27017"
	DefaultDesksDatabase = "spaces_desks"
	DefaultUsersDatabase = "spaces_users"
	DefaultMongoTimeout  = 10 * time.Second

	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	DefaultJWTExpiresIn = 7 * 24 * time.Hour

	DefaultKafkaTopic = "booking-events"
	DefaultImagesDir  = "public/images"

	DefaultRateLimitRPS   = 10.0
	DefaultRateLimitBurst = 20

	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// DefaultSaveAttempts bounds how many times a desk mutation is re-driven
	// after losing an optimistic-concurrency race.
	DefaultSaveAttempts = 3
)
