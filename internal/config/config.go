package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	App struct {
		Name          string          `envconfig:"APP_NAME" default:"Remito"`
		Port          int             `envconfig:"PORT" default:"8080"`
		Secret        string          `envconfig:"APP_SECRET" default:"dev-secret-change-me"`
		Company       string          `envconfig:"COMPANY_NAME" default:""`
		DefaultMargin decimal.Decimal `envconfig:"DEFAULT_MARGIN" default:"20"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Store struct {
		Driver  string `envconfig:"STORE_DRIVER" default:"file"`
		DataDir string `envconfig:"DATA_DIR" default:"data"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"remito"`
	}

	Catalog struct {
		Path    string        `envconfig:"PRODUCTS_CSV" default:""`
		URL     string        `envconfig:"PRODUCTS_CSV_URL" default:""`
		Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"15s"`
	}

	SMTP struct {
		Host     string `envconfig:"SMTP_HOST" default:""`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		User     string `envconfig:"SMTP_USER" default:""`
		Password string `envconfig:"SMTP_PASSWORD" default:""`
		From     string `envconfig:"SMTP_FROM" default:""`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"12h"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) OrdersDir() string {
	return filepath.Join(c.Store.DataDir, "orders")
}

func (c *Config) DocumentsDir() string {
	return filepath.Join(c.Store.DataDir, "pdfs")
}

func (c *Config) ClientsFile() string {
	return filepath.Join(c.Store.DataDir, "clients.json")
}

// CatalogPath is PRODUCTS_CSV, or products.csv in the data directory.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}

	return filepath.Join(c.Store.DataDir, "products.csv")
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.App.DefaultMargin.LessThan(decimal.NewFromInt(-100)) {
		return fmt.Errorf("DEFAULT_MARGIN must not be below -100, got %s", c.App.DefaultMargin)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
