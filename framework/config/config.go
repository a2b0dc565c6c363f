package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-scopes/framework/validation"
)

// Config is the typed configuration of a go-scopes process.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
	Inspect   InspectConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

type ContainerConfig struct {
	StrictTypes bool
	Metrics     bool
}

type InspectConfig struct {
	Addr string
}

// Load reads .env files (if present) and populates a Config from SCOPES_*
// environment variables. Already-set variables win over .env values.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env is optional outside local development
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("SCOPES_APP_NAME", "go-scopes"),
			Env:   env("SCOPES_ENV", "local"),
			Debug: envBool("SCOPES_DEBUG", true),
		},
		Log: LogConfig{
			Level:  env("SCOPES_LOG_LEVEL", "info"),
			Format: env("SCOPES_LOG_FORMAT", "console"),
		},
		Container: ContainerConfig{
			StrictTypes: envBool("SCOPES_STRICT_TYPES", false),
			Metrics:     envBool("SCOPES_METRICS", true),
		},
		Inspect: InspectConfig{
			Addr: env("SCOPES_INSPECT_ADDR", ":8090"),
		},
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	v := validation.Make(map[string]string{
		"SCOPES_APP_NAME":     c.App.Name,
		"SCOPES_ENV":          c.App.Env,
		"SCOPES_LOG_LEVEL":    c.Log.Level,
		"SCOPES_LOG_FORMAT":   c.Log.Format,
		"SCOPES_INSPECT_ADDR": c.Inspect.Addr,
	}, validation.Rules{
		"SCOPES_APP_NAME":     "required|max:64",
		"SCOPES_ENV":          "required|in:local,production,testing",
		"SCOPES_LOG_LEVEL":    "required|in:debug,info,warn,error",
		"SCOPES_LOG_FORMAT":   "required|in:console,json",
		"SCOPES_INSPECT_ADDR": `required|regex:^[^:]*:[0-9]{1,5}$`,
	})

	if v.Fails() {
		return fmt.Errorf("config: %w", v.Errors())
	}
	return nil
}

func (c *Config) IsLocal() bool      { return c.App.Env == "local" }
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
func (c *Config) IsTesting() bool    { return c.App.Env == "testing" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
