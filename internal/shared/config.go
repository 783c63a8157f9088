package shared

import (
	"crypto/rand"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	APIBase        string
	APIRPS         int
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	FragmentSource string
	FlashHashKey   []byte
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	SecureCookies  bool
}

// Load reads configuration from the environment. A .env file in the
// working directory, when present, seeds variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("read .env failed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		APIBase:        env("HBNB_API_BASE", "http://localhost:5000"),
		APIRPS:         atoi("HBNB_API_RPS", 10),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		FragmentSource: env("FRAGMENT_SOURCE", "element.html"),
		FlashHashKey:   []byte(os.Getenv("FLASH_HASH_KEY")),
		TokenTTL:       time.Duration(atoi("TOKEN_TTL_SECONDS", 3600)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
	c.SecureCookies = !isDev(c.AppEnv)

	if len(c.FlashHashKey) == 0 {
		// notices still work, they just do not survive a restart
		c.FlashHashKey = make([]byte, 32)
		if _, err := rand.Read(c.FlashHashKey); err != nil {
			log.Fatal().Err(err).Msg("generate flash key")
		}
		log.Warn().Msg("FLASH_HASH_KEY is empty, using a random key")
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, response cache kept in process")
	}
	return c
}

func isDev(appEnv string) bool {
	e := strings.ToLower(appEnv)
	return e == "dev" || e == "development"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
