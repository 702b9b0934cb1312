package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
	// TTL of cached film details
	DetailTTL time.Duration
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Profile struct {
	BaseURL        string
	FilmLinkBase   string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

type Weights struct {
	WatchlistPresent int
	WatchlistAbsent  int
	WatchedPresent   int
	WatchedAbsent    int
	LikedPresent     int
	LikedAbsent      int
}

type Recommend struct {
	PageSize int
	Weights  Weights
}

type Log struct {
	Level string
}

type Config struct {
	HTTP      HTTPServer
	Redis     RedisCache
	Postgres  Postgres
	Profile   Profile
	Recommend Recommend
	Log       Log
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

// FromEnv builds the config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:      *newHTTP(),
		Redis:     *newRedis(),
		Postgres:  *newPostgres(),
		Profile:   *newProfile(),
		Recommend: *newRecommend(),
		Log: Log{
			Level: getenv("LOG_LEVEL", "info"),
		},
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:      getenv("REDIS_PORT", "6379"),
		Host:      getenv("REDIS_HOST", "redis"),
		Password:  getenv("REDIS_PASSWORD", "shared"),
		DetailTTL: getenvDuration("REDIS_DETAIL_TTL", 24*time.Hour),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "test"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newProfile() *Profile {
	return &Profile{
		BaseURL:        getenv("PROFILE_BASE_URL", "http://profile:8090"),
		FilmLinkBase:   getenv("PROFILE_FILM_LINK_BASE", "https://www.letterboxd.com/film"),
		Timeout:        getenvDuration("PROFILE_TIMEOUT", 10*time.Second),
		RequestsPerSec: getenvFloat("PROFILE_RPS", 5),
		Burst:          getenvInt("PROFILE_BURST", 5),
	}
}

func newRecommend() *Recommend {
	return &Recommend{
		PageSize: getenvInt("RECOMMEND_PAGE_SIZE", 10),
		Weights: Weights{
			WatchlistPresent: getenvInt("WEIGHT_WATCHLIST_PRESENT", 2),
			WatchlistAbsent:  getenvInt("WEIGHT_WATCHLIST_ABSENT", -2),
			WatchedPresent:   getenvInt("WEIGHT_WATCHED_PRESENT", -1),
			WatchedAbsent:    getenvInt("WEIGHT_WATCHED_ABSENT", 1),
			LikedPresent:     getenvInt("WEIGHT_LIKED_PRESENT", 1),
			LikedAbsent:      getenvInt("WEIGHT_LIKED_ABSENT", 1),
		},
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("%s %s is not an integer (%q). Using default value %d\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getenvFloat(key string, defaultValue float64) float64 {
	raw := getenv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Printf("%s %s is not a number (%q). Using default value %v\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	v, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("%s %s is not a duration (%q). Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return v
}
