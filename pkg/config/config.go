package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Couchbase CouchbaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type CouchbaseConfig struct {
	Host      string
	User      string
	Password  string
	Bucket    string
	OpTimeout time.Duration
	SearchIdx string
	WaitReady time.Duration
}

type RedisConfig struct {
	URL             string
	AirportCacheTTL time.Duration
}

type NATSConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret     string
	HashPasswords bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Couchbase: CouchbaseConfig{
			Host:      getEnv("CB_HOST", "db"),
			User:      getEnv("CB_USER", "Administrator"),
			Password:  getEnv("CB_PSWD", "password"),
			Bucket:    getEnv("CB_BUCKET", "travel-sample"),
			OpTimeout: getDuration("CB_OP_TIMEOUT", 10*time.Second),
			SearchIdx: getEnv("CB_SEARCH_INDEX", "hotels-index"),
			WaitReady: getDuration("CB_WAIT_READY", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:             getEnv("REDIS_URL", ""),
			AirportCacheTTL: getDuration("AIRPORT_CACHE_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "cbtravelsample"),
			HashPasswords: getBool("AUTH_HASH_PASSWORDS", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
