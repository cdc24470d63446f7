// Package config resolves lvplan settings from an optional .env file and
// LVPLAN_* environment variables. Command-line flags override the result.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the run configuration.
type Config struct {
	// Input
	DataDir       string // directory of <sheet>.csv files; used when no workbook is set
	SupplyBook    string // .xlsx for the supply chain (local path or s3:// URL)
	RoutingBook   string
	PortfolioBook string

	// Output
	Output string // directory or s3://bucket/prefix
	RunID  string

	// Scenarios
	Scenarios  []string // subset of supplychain, routing, portfolio
	Currencies []string

	Engine    EngineConfig
	Routing   RoutingConfig
	Portfolio PortfolioConfig

	S3  S3Config
	SQL SQLConfig

	MetricsFile string
	LogLevel    slog.Level
}

// EngineConfig selects and tunes the solver backend.
type EngineConfig struct {
	Name      string // simplex | highs
	TimeLimit time.Duration
	MaxNodes  int
	Gap       float64
	Integral  bool // solve the supply chain as a MIP instead of its relaxation
}

// RoutingConfig configures the tour scenario.
type RoutingConfig struct {
	Strategy     string // auto | enumerate | lazy
	MaxEnumerate int
	MaxRounds    int
	Anchor       string
	Towns        []string // empty = built-in list
	CrossCheck   bool
}

// PortfolioConfig configures the allocation models.
type PortfolioConfig struct {
	MaxWeight float64
	MinReturn float64
}

// S3Config carries object-store connection settings for s3:// targets.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// SQLConfig enables the SQL sink when Driver is set.
type SQLConfig struct {
	Driver string // sqlite | postgres
	DSN    string
}

// Load reads files (default ".env") when present and then the environment.
// A missing .env is not an error.
func Load(logger *slog.Logger, files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && logger != nil {
		logger.Debug("no .env file loaded, using environment", "err", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		DataDir:       getEnvOrDefault("LVPLAN_DATA_DIR", "data"),
		SupplyBook:    os.Getenv("LVPLAN_SUPPLY_WORKBOOK"),
		RoutingBook:   os.Getenv("LVPLAN_ROUTING_WORKBOOK"),
		PortfolioBook: os.Getenv("LVPLAN_PORTFOLIO_WORKBOOK"),

		Output: getEnvOrDefault("LVPLAN_OUTPUT", "out"),
		RunID:  getEnvOrDefault("LVPLAN_RUN_ID", time.Now().UTC().Format("20060102T150405Z")),

		Scenarios:  getEnvList("LVPLAN_SCENARIOS", []string{"supplychain", "routing", "portfolio"}),
		Currencies: getEnvList("LVPLAN_CURRENCIES", []string{"USD", "EUR"}),

		Engine: EngineConfig{
			Name:      getEnvOrDefault("LVPLAN_ENGINE", "simplex"),
			TimeLimit: getEnvDuration("LVPLAN_TIME_LIMIT", 0),
			MaxNodes:  getEnvInt("LVPLAN_MAX_NODES", 0),
			Gap:       getEnvFloat("LVPLAN_MIP_GAP", 1e-9),
			Integral:  getEnvBool("LVPLAN_SUPPLY_INTEGRAL", false),
		},
		Routing: RoutingConfig{
			Strategy:     getEnvOrDefault("LVPLAN_ROUTING_STRATEGY", "auto"),
			MaxEnumerate: getEnvInt("LVPLAN_ROUTING_MAX_ENUMERATE", 10),
			MaxRounds:    getEnvInt("LVPLAN_ROUTING_MAX_ROUNDS", 200),
			Anchor:       getEnvOrDefault("LVPLAN_ROUTING_ANCHOR", "Cork"),
			Towns:        getEnvList("LVPLAN_ROUTING_TOWNS", nil),
			CrossCheck:   getEnvBool("LVPLAN_ROUTING_CROSSCHECK", false),
		},
		Portfolio: PortfolioConfig{
			MaxWeight: getEnvFloat("LVPLAN_PORTFOLIO_MAX_WEIGHT", 0.3),
			MinReturn: getEnvFloat("LVPLAN_PORTFOLIO_MIN_RETURN", 1.005),
		},

		S3: S3Config{
			Region:          getEnvOrDefault("LVPLAN_S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("LVPLAN_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			PathStyle:       getEnvBool("LVPLAN_S3_PATH_STYLE", false),
		},
		SQL: SQLConfig{
			Driver: os.Getenv("LVPLAN_SQL_DRIVER"),
			DSN:    os.Getenv("LVPLAN_SQL_DSN"),
		},

		MetricsFile: os.Getenv("LVPLAN_METRICS_FILE"),
		LogLevel:    getEnvLevel("LVPLAN_LOG_LEVEL", slog.LevelInfo),
	}
}

// Validate rejects settings no component could use.
func (c *Config) Validate() error {
	switch c.Engine.Name {
	case "simplex", "highs":
	default:
		return fmt.Errorf("config: engine %q: want simplex or highs", c.Engine.Name)
	}
	if c.Engine.TimeLimit < 0 || c.Engine.MaxNodes < 0 || c.Engine.Gap < 0 {
		return fmt.Errorf("config: negative engine limit")
	}
	if c.SQL.Driver != "" && c.SQL.DSN == "" {
		return fmt.Errorf("config: LVPLAN_SQL_DSN required with driver %q", c.SQL.Driver)
	}
	for _, s := range c.Scenarios {
		switch s {
		case "supplychain", "routing", "portfolio":
		default:
			return fmt.Errorf("config: unknown scenario %q", s)
		}
	}
	return nil
}

// Enabled reports whether scenario is selected.
func (c *Config) Enabled(scenario string) bool {
	for _, s := range c.Scenarios {
		if s == scenario {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	return SplitList(raw)
}

// SplitList splits "a, b,,c" into [a b c].
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return defaultValue
	}
	return l
}
