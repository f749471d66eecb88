package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/RakanBA/AYAN/internal/archive"
	"github.com/RakanBA/AYAN/internal/store"
)

// DefaultFiles are read in order before the environment is consulted.
// Variables already set in the environment win.
var DefaultFiles = []string{"ayan.env", ".env"}

type Config struct {
	Addr        string
	StoreEngine string
	DataFile    string
	RedisAddr   string
	RedisPrefix string

	BuildingURL       string
	LandmarkURL       string
	InfoURL           string
	ClassifierTimeout time.Duration

	// PublicOrigin, when set, decides whether the client origin counts as
	// encrypted instead of the incoming request.
	PublicOrigin string

	LogMode     string
	CORSOrigins []string
	COS         archive.COSConfig
}

// LoadFiles preloads variables from the given env files. Missing files are
// skipped.
func LoadFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the environment and applies -host/-port from args.
func Load(args []string) (Config, error) {
	storeEngine := strings.ToLower(envOrDefault("AYAN_STORE", store.EngineSQLite))
	cfg := Config{
		StoreEngine:       storeEngine,
		DataFile:          envOrDefault("AYAN_DATA_FILE", defaultDataFile(storeEngine)),
		RedisAddr:         envOrDefault("AYAN_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPrefix:       envOrDefault("AYAN_REDIS_PREFIX", "ayan:"),
		BuildingURL:       envOrDefault("AYAN_BUILDING_API_URL", "http://127.0.0.1:8000/predict_building"),
		LandmarkURL:       envOrDefault("AYAN_LANDMARK_API_URL", "http://127.0.0.1:8000/predict_landmark"),
		InfoURL:           envOrDefault("AYAN_INFO_API_URL", ""),
		ClassifierTimeout: time.Duration(parseEnvInt("AYAN_CLASSIFIER_TIMEOUT_SECONDS", 30)) * time.Second,
		PublicOrigin:      strings.TrimSpace(os.Getenv("AYAN_PUBLIC_ORIGIN")),
		LogMode:           envOrDefault("AYAN_LOG_MODE", "dev"),
		CORSOrigins:       splitList(envOrDefault("AYAN_CORS_ORIGINS", "*")),
		COS: archive.COSConfig{
			SecretID:     os.Getenv("AYAN_COS_SECRET_ID"),
			SecretKey:    os.Getenv("AYAN_COS_SECRET_KEY"),
			Region:       envOrDefault("AYAN_COS_REGION", "ap-hongkong"),
			BucketName:   os.Getenv("AYAN_COS_BUCKET_NAME"),
			PublicDomain: os.Getenv("AYAN_COS_PUBLIC_DOMAIN"),
		},
	}

	addr, err := resolveListenAddr(args)
	if err != nil {
		return Config{}, err
	}
	cfg.Addr = addr

	if cfg.ClassifierTimeout <= 0 {
		return Config{}, errors.New("AYAN_CLASSIFIER_TIMEOUT_SECONDS must be positive")
	}
	if cfg.PublicOrigin != "" {
		u, err := url.Parse(cfg.PublicOrigin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("invalid AYAN_PUBLIC_ORIGIN %q", cfg.PublicOrigin)
		}
	}
	return cfg, nil
}

// OriginSecure reports the configured origin scheme. ok is false when no
// public origin is configured.
func (c Config) OriginSecure() (secure bool, ok bool) {
	if c.PublicOrigin == "" {
		return false, false
	}
	u, err := url.Parse(c.PublicOrigin)
	if err != nil {
		return false, false
	}
	return strings.EqualFold(u.Scheme, "https"), true
}

func resolveListenAddr(args []string) (string, error) {
	defaultHost, defaultPort := parseListenAddr(envOrDefault("AYAN_ADDR", ":8080"))
	if defaultPort <= 0 {
		defaultPort = 8080
	}
	defaultHost = strings.TrimSpace(envOrDefault("AYAN_HOST", defaultHost))
	defaultPort = parseEnvInt("AYAN_PORT", defaultPort)

	fs := flag.NewFlagSet("ayan", flag.ContinueOnError)
	host := fs.String("host", defaultHost, "server listen host, e.g. 0.0.0.0")
	port := fs.Int("port", defaultPort, "server listen port, e.g. 8080")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return joinListenAddr(strings.TrimSpace(*host), *port), nil
}

func parseListenAddr(addr string) (string, int) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", 0
	}
	if strings.HasPrefix(addr, ":") {
		return "", parseEnvIntValue(strings.TrimPrefix(addr, ":"), 0)
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		return host, parseEnvIntValue(port, 0)
	}
	if portOnly := parseEnvIntValue(addr, 0); portOnly > 0 {
		return "", portOnly
	}
	return addr, 0
}

func joinListenAddr(host string, port int) string {
	if port <= 0 {
		port = 8080
	}
	if host == "" {
		return fmt.Sprintf(":%d", port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func defaultDataFile(storeEngine string) string {
	switch storeEngine {
	case store.EngineJSON:
		return "data/ayan.json"
	default:
		return "data/ayan.db"
	}
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return parseEnvIntValue(raw, fallback)
}

func parseEnvIntValue(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
