package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    HTTPServerConfig `json:"server"`
	Mongo     MongoConfig      `json:"mongo"`
	FileRepo  FileRepoConfig   `json:"file_repo"`
	Generator GeneratorConfig  `json:"generator"`
	Worker    WorkerConfig     `json:"worker"`
	Metrics   MetricsConfig    `json:"metrics"`
}

type HTTPServerConfig struct {
	Host         string        `json:"host" default:"0.0.0.0"`
	Port         int           `json:"port" default:"5000"`
	ReadTimeout  time.Duration `json:"read_timeout" default:"30s"`
	WriteTimeout time.Duration `json:"write_timeout" default:"30s"`
}

// MongoConfig with an empty URI selects the in-memory stores.
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database" default:"infragen"`
}

func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

type FileRepoConfig struct {
	OutputDir string `json:"output_dir" default:"./output"`
}

type GeneratorConfig struct {
	MaxServers int `json:"max_servers" default:"0"`
}

type WorkerConfig struct {
	PollInterval time.Duration `json:"poll_interval" default:"5s"`
}

type MetricsConfig struct {
	Addr string `json:"addr" default:":2112"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 5000)
	if err != nil {
		return nil, err
	}
	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxServers, err := getEnvInt("MAX_SERVERS", 0)
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("WORKER_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: HTTPServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         port,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DB", "infragen"),
		},
		FileRepo: FileRepoConfig{
			OutputDir: getEnv("OUTPUT_DIR", "./output"),
		},
		Generator: GeneratorConfig{
			MaxServers: maxServers,
		},
		Worker: WorkerConfig{
			PollInterval: pollInterval,
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":2112"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT out of range: %d", cfg.Server.Port)
	}
	if cfg.Generator.MaxServers < 0 {
		return nil, fmt.Errorf("MAX_SERVERS must not be negative: %d", cfg.Generator.MaxServers)
	}
	if cfg.Worker.PollInterval <= 0 {
		return nil, fmt.Errorf("WORKER_POLL_INTERVAL must be positive: %s", cfg.Worker.PollInterval)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
