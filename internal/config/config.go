package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	UploadDir           string        `yaml:"upload_dir" validate:"required"`
	SessionTTL          time.Duration `yaml:"session_ttl" validate:"required"`
	SearchCookieTTL     time.Duration `yaml:"search_cookie_ttl"`
	MaxUploadSizeBytes  int64         `yaml:"max_upload_size_bytes" validate:"required,gt=0"`
	SecureCookies       bool          `yaml:"secure_cookies"`
	AllowedOrigins      []string      `yaml:"allowed_origins"`
	LogLevel            string        `yaml:"log_level"`
	LogJSON             bool          `yaml:"log_json"`
	TemplatesPath       string        `yaml:"templates_path" validate:"required"`
	StaticPath          string        `yaml:"static_path"`
	RecentPostsLimit    int           `yaml:"recent_posts_limit"`
	// OrphanSweepInterval of zero disables the background sweeper.
	OrphanSweepInterval time.Duration `yaml:"orphan_sweep_interval"`
	OrphanGrace         time.Duration `yaml:"orphan_grace"`
	Pg                  Pg            `yaml:"pg" validate:"required"`
	Redis               Redis         `yaml:"redis" validate:"required"`
}

type Pg struct {
	Host   string `yaml:"host" validate:"required"`
	Port   int    `yaml:"port" validate:"required"`
	Dbname string `yaml:"dbname" validate:"required"`
}

type Redis struct {
	Addr string `yaml:"addr" validate:"required"`
	DB   int    `yaml:"db"`
}

type Private struct {
	Pg            PgCredentials `yaml:"pg"`
	SessionSecret string        `yaml:"session_secret" validate:"required"`
	RedisPassword string        `yaml:"redis_password"`
}

type PgCredentials struct {
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
}

func (c *Config) SessionSecret() string {
	return c.Private.SessionSecret
}

func (c *Config) SessionTTL() time.Duration {
	return c.Public.SessionTTL
}

// PgDSN builds a lib/pq keyword/value connection string.
func (c *Config) PgDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Public.Pg.Host, c.Public.Pg.Port,
		c.Private.Pg.User, c.Private.Pg.Password,
		c.Public.Pg.Dbname)
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

// applyEnv lets deployment override values that differ per environment or are secret.
func applyEnv(cfg *Config) {
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Public.UploadDir = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Private.SessionSecret = v
	}
	if v := os.Getenv("PG_HOST"); v != "" {
		cfg.Public.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Public.Pg.Port = port
		}
	}
	if v := os.Getenv("PG_USER"); v != "" {
		cfg.Private.Pg.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		cfg.Private.Pg.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Public.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Private.RedisPassword = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Public.SearchCookieTTL == 0 {
		cfg.Public.SearchCookieTTL = 30 * time.Minute
	}
	if cfg.Public.RecentPostsLimit == 0 {
		cfg.Public.RecentPostsLimit = 10
	}
	if cfg.Public.OrphanGrace == 0 {
		cfg.Public.OrphanGrace = time.Hour
	}
	if cfg.Public.LogLevel == "" {
		cfg.Public.LogLevel = "info"
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and panics if a required field is missing.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	applyEnv(cfg)
	setDefaults(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}

	// Both the file service and the image handler read this; resolve it once.
	uploadDir, err := filepath.Abs(cfg.Public.UploadDir)
	if err != nil {
		panic("can't resolve upload_dir: " + err.Error())
	}
	cfg.Public.UploadDir = uploadDir

	return cfg
}
