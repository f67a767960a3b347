package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	MailSMTP     = "smtp"
	MailRabbitMQ = "rabbitmq"
	MailLog      = "log"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Auth / Security
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SideTokenTTL    time.Duration // verify + reset tokens
	BcryptCost      int

	RequireEmailVerification bool
	StrictRefreshRotation    bool
	ExposeResetToken         bool

	// Store
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DBAddr        string
	DBDebug       bool

	// Redis (optional, rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mail
	MailTransport  string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	MailFrom       string
	RabbitURL      string
	RabbitExchange string
	VerifyURLBase  string
	ResetURLBase   string

	// Observability
	SentryDSN string

	// Seed admin for persistent stores, skipped when empty.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads configuration with precedence env > CONFIG_FILE (YAML) > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	return load(src)
}

func load(src source) (*Config, error) {
	var err error
	cfg := &Config{
		Env:      src.str("ENV", "dev"),
		HTTPAddr: src.str("HTTP_ADDR", ":8080"),

		JWTIssuer: src.str("JWT_ISSUER", "account-service"),

		StoreDriver:   strings.ToLower(src.str("STORE_DRIVER", StoreMongo)),
		MongoURI:      src.str("MONGO_URI", ""),
		MongoDatabase: src.str("MONGO_DATABASE", "accounts"),
		DBAddr:        src.str("DB_ADDR", ""),

		RedisAddr:     src.str("REDIS_ADDR", ""),
		RedisPassword: src.str("REDIS_PASSWORD", ""),

		MailTransport:  strings.ToLower(src.str("MAIL_TRANSPORT", MailLog)),
		SMTPHost:       src.str("SMTP_HOST", ""),
		SMTPUser:       src.str("SMTP_USER", ""),
		SMTPPassword:   src.str("SMTP_PASSWORD", ""),
		MailFrom:       src.str("MAIL_FROM", ""),
		RabbitURL:      src.str("RABBIT_URL", ""),
		RabbitExchange: src.str("RABBIT_EXCHANGE", "account.events"),
		VerifyURLBase:  src.str("VERIFY_URL_BASE", "http://localhost:3000/verify?token="),
		ResetURLBase:   src.str("RESET_URL_BASE", "http://localhost:3000/reset-password?token="),

		SentryDSN: src.str("SENTRY_DSN", ""),

		SeedAdminEmail:    src.str("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: src.str("SEED_ADMIN_PASSWORD", ""),
	}

	// required values
	cfg.JWTSecret = src.str("JWT_SECRET", "")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", 15 * time.Minute, &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", 7 * 24 * time.Hour, &cfg.RefreshTokenTTL},
		{"SIDE_TOKEN_TTL", time.Hour, &cfg.SideTokenTTL},
		{"HTTP_READ_TIMEOUT", 10 * time.Second, &cfg.HTTPReadTimeout},
		{"HTTP_WRITE_TIMEOUT", 30 * time.Second, &cfg.HTTPWriteTimeout},
		{"HTTP_IDLE_TIMEOUT", time.Minute, &cfg.HTTPIdleTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = src.duration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	bools := []struct {
		key string
		def bool
		dst *bool
	}{
		{"REQUIRE_EMAIL_VERIFICATION", true, &cfg.RequireEmailVerification},
		{"STRICT_REFRESH_ROTATION", false, &cfg.StrictRefreshRotation},
		{"EXPOSE_RESET_TOKEN", true, &cfg.ExposeResetToken},
		{"DB_DEBUG", false, &cfg.DBDebug},
	}
	for _, b := range bools {
		if *b.dst, err = src.boolean(b.key, b.def); err != nil {
			return nil, err
		}
	}

	if cfg.BcryptCost, err = src.integer("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}
	if cfg.RedisDB, err = src.integer("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = src.integer("SMTP_PORT", 587); err != nil {
		return nil, err
	}

	// The service appends the token to these links.
	if !strings.Contains(cfg.VerifyURLBase, "token=") {
		return nil, fmt.Errorf("VERIFY_URL_BASE must contain `token=`")
	}
	if !strings.Contains(cfg.ResetURLBase, "token=") {
		return nil, fmt.Errorf("RESET_URL_BASE must contain `token=`")
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("missing required env var: MONGO_URI (STORE_DRIVER=mongo)")
		}
	case StorePostgres:
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR (STORE_DRIVER=postgres)")
		}
		if !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
			return nil, fmt.Errorf("DB_ADDR must be a postgres:// URL")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (mongo|postgres|memory)", cfg.StoreDriver)
	}

	switch cfg.MailTransport {
	case MailSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("missing required env var: SMTP_HOST (MAIL_TRANSPORT=smtp)")
		}
	case MailRabbitMQ:
		if cfg.RabbitURL == "" {
			return nil, fmt.Errorf("missing required env var: RABBIT_URL (MAIL_TRANSPORT=rabbitmq)")
		}
	case MailLog:
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q (smtp|rabbitmq|log)", cfg.MailTransport)
	}

	if (cfg.SeedAdminEmail == "") != (cfg.SeedAdminPassword == "") {
		return nil, fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// IsDev reports whether dev-only conveniences (seeding, insecure cookies) apply.
func (c *Config) IsDev() bool { return c.Env == "dev" }

// source resolves a key from the environment, then the YAML file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	src := source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return src, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		src.file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return src, nil
}

func (s source) lookup(key string) (string, bool) {
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok && v != ""
}

func (s source) str(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

func (s source) duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func (s source) boolean(key string, def bool) (bool, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func (s source) integer(key string, def int) (int, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}
