package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr         string
		SecureCookie bool `mapstructure:"secure_cookie"`
	} `mapstructure:"http"`

	SQLite struct {
		Path          string
		MigrationsDir string `mapstructure:"migrations_dir"`
	} `mapstructure:"sqlite"`

	Backend struct {
		BaseURL    string        `mapstructure:"base_url"`
		Token      string        `mapstructure:"token"`
		Timeout    time.Duration `mapstructure:"timeout"`
		PicksURL   string        `mapstructure:"picks_url"`
		PicksRetry time.Duration `mapstructure:"picks_retry"`
	} `mapstructure:"backend"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Print struct {
		SessionTTL         time.Duration `mapstructure:"session_ttl"`
		RenderWait         time.Duration `mapstructure:"render_wait"`
		PreparedByFallback string        `mapstructure:"prepared_by_fallback"`
	} `mapstructure:"print"`

	Progress struct {
		// OrderIdle is how long an unwatched order's live stages are kept after its last change.
		OrderIdle time.Duration `mapstructure:"order_idle"`
	} `mapstructure:"progress"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.secure_cookie", false)
	v.SetDefault("sqlite.path", "godam.db")
	v.SetDefault("sqlite.migrations_dir", "")
	v.SetDefault("backend.base_url", "http://localhost:8081")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.picks_url", "")
	v.SetDefault("backend.picks_retry", 5*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("print.session_ttl", 30*time.Minute)
	v.SetDefault("print.render_wait", 2*time.Second)
	v.SetDefault("print.prepared_by_fallback", "GoDam User")
	v.SetDefault("progress.order_idle", 6*time.Hour)
}

// Load reads path (optional, YAML) and GODAM_* environment overrides, e.g. GODAM_BACKEND_BASE_URL.
// A .env file in the working directory is applied to the environment first when present.
func Load(path string) (Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("GODAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.SQLite.Path) == "" {
		return errors.New("sqlite.path is required")
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Print.RenderWait < 0 {
		return errors.New("print.render_wait must not be negative")
	}
	if c.Print.SessionTTL <= 0 {
		return errors.New("print.session_ttl must be positive")
	}
	if c.Progress.OrderIdle <= 0 {
		return errors.New("progress.order_idle must be positive")
	}
	return nil
}

// Dev reports whether the console runs in development mode.
func (c Config) Dev() bool {
	return c.App.Env == "dev"
}
