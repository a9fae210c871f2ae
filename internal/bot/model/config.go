package model

import "time"

// ================ Config ================
type SorareConfig struct {
	Endpoint      string        `envconfig:"SORARE_API_URL" default:"https://api.sorare.com/graphql"`
	APIKey        string        `envconfig:"SORARE_API_KEY"`
	SearchSchema  string        `envconfig:"SORARE_SEARCH_SCHEMA" default:"legacy"`
	SearchTimeout time.Duration `envconfig:"SORARE_SEARCH_TIMEOUT" default:"10s"`
	PriceTimeout  time.Duration `envconfig:"SORARE_PRICE_TIMEOUT" default:"15s"`
}

type CacheConfig struct {
	Backend       string        `envconfig:"CACHE_BACKEND" default:"memory"`
	MaxEntries    int           `envconfig:"CACHE_MAX_SIZE" default:"1000"`
	PlayersTTL    time.Duration `envconfig:"PLAYERS_CACHE_TTL" default:"10m"`
	PricesTTL     time.Duration `envconfig:"PRICE_CACHE_TTL" default:"5m"`
	RedisKeyspace string        `envconfig:"CACHE_REDIS_PREFIX" default:"sorare-bot"`
}

type SessionConfig struct {
	Backend    string        `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL        time.Duration `envconfig:"SESSION_TTL" default:"15m"`
	MaxEntries int           `envconfig:"SESSION_MAX_SIZE" default:"10000"`
}

type KeepAliveConfig struct {
	Enabled  bool          `envconfig:"KEEPALIVE_ENABLED" default:"true"`
	URL      string        `envconfig:"KEEPALIVE_URL" default:"https://google.com"`
	Interval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"300s"`
	Timeout  time.Duration `envconfig:"KEEPALIVE_TIMEOUT" default:"10s"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
