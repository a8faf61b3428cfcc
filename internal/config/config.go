package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = 4000
	DefaultModel       = "gemini-2.0-flash"
	DefaultPlanTimeout = 8 * time.Second
)

// apiKeyVars are checked in order; the first non-empty one wins.
var apiKeyVars = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY"}

// Config is the relay configuration.
type Config struct {
	Port     int
	Env      string
	LogLevel string

	GeminiAPIKey string
	KeySource    string
	GeminiModel  string
	GCPProject   string
	GCPLocation  string
	HasADC       bool
	PlanTimeout  time.Duration

	CORSOrigins []string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
}

type source struct {
	name   string
	lookup func(string) (string, bool)
}

type env []source

func (e env) get(key string) (value, from string) {
	for _, s := range e {
		if v, ok := s.lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), s.name
		}
	}
	return "", ""
}

func (e env) str(key, def string) string {
	if v, _ := e.get(key); v != "" {
		return v
	}
	return def
}

func (e env) num(key string, def int) int {
	v, _ := e.get(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func fileSource(path, name string) (source, bool) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return source{}, false
	}
	return source{
		name: name,
		lookup: func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		},
	}, true
}

// Load reads the configuration for the current working directory.
func Load() *Config {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return LoadFrom(dir)
}

// LoadFrom resolves each setting from the process environment first, then
// dir/.env. Outside production, a missing API key is also looked up in
// dir/.vscode/.env. Files never modify the process environment.
func LoadFrom(dir string) *Config {
	e := env{{name: "environment", lookup: os.LookupEnv}}
	if s, ok := fileSource(filepath.Join(dir, ".env"), ".env"); ok {
		e = append(e, s)
	}

	cfg := &Config{Env: e.str("APP_ENV", e.str("NODE_ENV", "development"))}

	key, from := lookupAPIKey(e)
	if key == "" && !cfg.Production() {
		if s, ok := fileSource(filepath.Join(dir, ".vscode", ".env"), ".vscode/.env"); ok {
			e = append(e, s)
			key, from = lookupAPIKey(e)
		}
	}
	cfg.GeminiAPIKey = key
	cfg.KeySource = from

	cfg.Port = e.num("PORT", DefaultPort)
	cfg.LogLevel = e.str("LOG_LEVEL", "info")
	cfg.GeminiModel = e.str("GEMINI_MODEL", DefaultModel)
	cfg.GCPProject = e.str("GOOGLE_CLOUD_PROJECT", "")
	cfg.GCPLocation = e.str("GOOGLE_CLOUD_LOCATION", "")
	cfg.HasADC = e.str("GOOGLE_APPLICATION_CREDENTIALS", "") != ""
	cfg.PlanTimeout = parseTimeout(e.str("PLAN_TIMEOUT", ""))
	cfg.CORSOrigins = splitList(e.str("CORS_ORIGINS", "*"))

	cfg.DBHost = e.str("DB_HOST", "")
	cfg.DBPort = e.num("DB_PORT", 5432)
	cfg.DBUser = e.str("DB_USER", "")
	cfg.DBPassword = e.str("DB_PASSWORD", "")
	cfg.DBName = e.str("DB_NAME", "")

	return cfg
}

func lookupAPIKey(e env) (string, string) {
	for _, name := range apiKeyVars {
		if v, from := e.get(name); v != "" {
			return v, name + " (" + from + ")"
		}
	}
	return "", ""
}

// parseTimeout accepts a Go duration ("5s") or whole seconds ("5").
func parseTimeout(v string) time.Duration {
	if v == "" {
		return DefaultPlanTimeout
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return DefaultPlanTimeout
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DBEnabled reports whether analytics should be written to Postgres.
func (c *Config) DBEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}
