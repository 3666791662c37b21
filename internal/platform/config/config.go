package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	RemoteNone   = "none"
	RemoteGRPC   = "grpc"
	RemotePlugin = "plugin"
)

// Config is the client configuration. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	DataDir     string
	DBPath      string
	TokenPath   string
	ActivePath  string
	Remote      string
	RemoteAddr  string
	PluginPath  string
	MetricsFile string
	LogLevel    string
	CallTimeout time.Duration
}

// New loads configuration for dataDir. An empty dataDir resolves to the
// PAJAMA_DATA_DIR variable or the XDG data home.
func New(dataDir string) (Config, error) {
	_ = godotenv.Load()

	if dataDir == "" {
		dataDir = getEnv("PAJAMA_DATA_DIR", filepath.Join(xdg.DataHome, "pajama"))
	}
	cfg := Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "pajama.db"),
		TokenPath:   filepath.Join(dataDir, "token.json"),
		ActivePath:  filepath.Join(dataDir, "active-session.json"),
		Remote:      strings.ToLower(getEnv("PAJAMA_REMOTE", RemoteNone)),
		RemoteAddr:  getEnv("PAJAMA_REMOTE_ADDR", "127.0.0.1:7443"),
		PluginPath:  os.Getenv("PAJAMA_PLUGIN_PATH"),
		MetricsFile: os.Getenv("PAJAMA_METRICS_FILE"),
		LogLevel:    getEnv("PAJAMA_LOG_LEVEL", "warn"),
		CallTimeout: getEnvDuration("PAJAMA_CALL_TIMEOUT", 10*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	switch c.Remote {
	case RemoteNone:
	case RemoteGRPC:
		if c.RemoteAddr == "" {
			return fmt.Errorf("PAJAMA_REMOTE_ADDR is required for grpc remote")
		}
	case RemotePlugin:
		if c.PluginPath == "" {
			return fmt.Errorf("PAJAMA_PLUGIN_PATH is required for plugin remote")
		}
	default:
		return fmt.Errorf("unknown remote %q: want none|grpc|plugin", c.Remote)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive")
	}
	return nil
}

// ServerConfig configures pajamad.
type ServerConfig struct {
	Addr        string
	MetricsAddr string
	DBPath      string
	Secret      string
	Issuer      string
	LogLevel    string
}

func LoadServer() (ServerConfig, error) {
	_ = godotenv.Load()

	cfg := ServerConfig{
		Addr:        getEnv("PAJAMAD_ADDR", "127.0.0.1:7443"),
		MetricsAddr: getEnv("PAJAMAD_METRICS_ADDR", "127.0.0.1:9464"),
		DBPath:      getEnv("PAJAMAD_DB", filepath.Join(xdg.DataHome, "pajamad", "documents.db")),
		Secret:      os.Getenv("PAJAMAD_SECRET"),
		Issuer:      getEnv("PAJAMAD_ISSUER", "pajamad"),
		LogLevel:    getEnv("PAJAMAD_LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c ServerConfig) Validate() error {
	var missing []string
	if c.Addr == "" {
		missing = append(missing, "PAJAMAD_ADDR")
	}
	if c.DBPath == "" {
		missing = append(missing, "PAJAMAD_DB")
	}
	if c.Secret == "" {
		missing = append(missing, "PAJAMAD_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("PAJAMAD_SECRET must be at least 16 bytes")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
