package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"forestreport/upstream"
)

// Store drivers.
const (
	driverMySQL  = "mysql"
	driverMongo  = "mongo"
	driverMemory = "memory"
)

type Config struct {
	Port              string
	StoreDriver       string
	MySQLDSN          string
	MongoURI          string
	MongoDB           string
	PoolMin           int
	PoolMax           int
	UpstreamURL       string
	UpstreamTimeout   time.Duration
	UpstreamJWTSecret string
	CORSOrigins       []string
	LogLevel          logrus.Level
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("port", "5001")
	v.SetDefault("store_driver", driverMySQL)
	v.SetDefault("mysql_dsn", "root:root@tcp(127.0.0.1:3306)/inventario?parseTime=true&charset=utf8mb4")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "inventario_analisis")
	v.SetDefault("db_pool_min", 2)
	v.SetDefault("db_pool_max", 10)
	v.SetDefault("upstream_url", upstream.DefaultBaseURL)
	v.SetDefault("upstream_timeout", "15s")
	v.SetDefault("upstream_jwt_secret", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("log_level", "info")
}

// loadConfig reads the environment, after loading an optional .env file.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	applyDefaults(v)
	v.AutomaticEnv()

	level, err := logrus.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := Config{
		Port:              v.GetString("port"),
		StoreDriver:       strings.ToLower(v.GetString("store_driver")),
		MySQLDSN:          v.GetString("mysql_dsn"),
		MongoURI:          v.GetString("mongo_uri"),
		MongoDB:           v.GetString("mongo_db"),
		PoolMin:           v.GetInt("db_pool_min"),
		PoolMax:           v.GetInt("db_pool_max"),
		UpstreamURL:       v.GetString("upstream_url"),
		UpstreamTimeout:   v.GetDuration("upstream_timeout"),
		UpstreamJWTSecret: v.GetString("upstream_jwt_secret"),
		CORSOrigins:       splitList(v.GetString("cors_origins")),
		LogLevel:          level,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case driverMySQL, driverMongo, driverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}
	if c.PoolMin < 0 || c.PoolMax <= 0 || c.PoolMin > c.PoolMax {
		return fmt.Errorf("invalid pool bounds: DB_POOL_MIN=%d DB_POOL_MAX=%d", c.PoolMin, c.PoolMax)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
