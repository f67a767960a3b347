package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/audit"
	"github.com/baechuer/account-service/internal/config"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/db/mongodb"
	"github.com/baechuer/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/account-service/internal/infrastructure/mail"
	"github.com/baechuer/account-service/internal/infrastructure/memory"
	"github.com/baechuer/account-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/account-service/internal/infrastructure/redis"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/observability"
	http_handlers "github.com/baechuer/account-service/internal/transport/http/handlers"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
	"github.com/baechuer/account-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

// Release is reported to Sentry; set with -ldflags "-X .../bootstrap.Release=<sha>".
var Release = "dev"

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	ConnectMongo func(ctx context.Context, uri string) (*mongo.Client, error)

	NewDB func(dsn string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	if cfg.SentryDSN != "" {
		if err := observability.InitSentry(cfg.SentryDSN, cfg.Env, Release); err != nil {
			logger.Logger.Warn().Err(err).Msg("sentry init failed; error reporting disabled")
		} else {
			cleanupFns = append(cleanupFns, observability.FlushSentry)
		}
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// 1) account store
	repo, closeRepo, err := openRepo(deps, cfg, hasher)
	if err != nil {
		return fail(err)
	}
	if closeRepo != nil {
		cleanupFns = append(cleanupFns, closeRepo)
	}

	if cfg.SeedAdminEmail != "" {
		postgres.SeedAdmin(context.Background(), repo, hasher, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	}

	// 2) redis (best-effort, rate limiting only)
	var limiter middleware.RateLimiter
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			if rc, ok := c.(*redis.Client); ok {
				limiter = redis.NewFixedWindowLimiter(rc)
			}
		}
	}

	// 3) mailer
	mailer, closeMailer, err := openMailer(deps, cfg)
	if err != nil {
		return fail(err)
	}
	if closeMailer != nil {
		cleanupFns = append(cleanupFns, closeMailer)
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt issuer")
	tokens := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// 5) service
	svc := account.NewService(
		account.NewStore(repo, hasher),
		tokens,
		mailer,
		account.Config{
			RequireEmailVerification: cfg.RequireEmailVerification,
			StrictRefreshRotation:    cfg.StrictRefreshRotation,
			SideTokenTTL:             cfg.SideTokenTTL,
			VerifyURLBase:            cfg.VerifyURLBase,
			ResetURLBase:             cfg.ResetURLBase,
		},
	).WithAudit(audit.New(logger.Logger).Record)

	// 6) handlers + middleware
	accountH := http_handlers.NewAccountHandler(svc, http_handlers.AccountHandlerConfig{
		AccessTTL:        cfg.AccessTokenTTL,
		RefreshTTL:       cfg.RefreshTokenTTL,
		SecureCookies:    !cfg.IsDev(),
		ExposeResetToken: cfg.ExposeResetToken,
	})
	healthH := http_handlers.NewHealthHandler(svc)

	gate := middleware.NewGate(tokens, response.WriteError)

	rl := func(key string, limit int, window time.Duration) router.Middleware {
		return middleware.RateLimit(limiter, middleware.FixedWindowConfig{
			RouteKey: key,
			Limit:    limit,
			Window:   window,
		}, response.WriteError)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Account: accountH,
		Global: []router.Middleware{
			middleware.RequestID,
			middleware.Recover(response.WriteError),
			middleware.AccessLog,
			middleware.Metrics,
		},
		UserMW:  gate.Require(domain.RoleUser, domain.RoleAdmin),
		AdminMW: gate.Require(domain.RoleAdmin),

		RLRegister:       rl("account.register", 3, time.Minute),
		RLLogin:          rl("account.login", 5, time.Minute),
		RLRefresh:        rl("account.refresh", 10, time.Minute),
		RLForgotPassword: rl("account.forgot_password", 3, 10*time.Minute),
		RLTokenRedeem:    rl("account.token_redeem", 5, time.Minute),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// openRepo picks the account store by STORE_DRIVER. The returned close func may be nil.
func openRepo(deps Deps, cfg *config.Config, hasher *security.BcryptHasher) (account.AccountRepository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreMemory:
		repo := memory.NewAccountRepo()
		if cfg.IsDev() {
			memory.SeedAccounts(ctx, repo, hasher)
		}
		return repo, nil, nil

	case config.StoreMongo:
		if deps.ConnectMongo == nil {
			return nil, nil, fmt.Errorf("bootstrap: mongo store selected without ConnectMongo")
		}
		client, err := deps.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		repo := mongodb.NewAccountRepo(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("bootstrap: mongo indexes: %w", err)
		}
		logger.Logger.Info().Str("database", cfg.MongoDatabase).Msg("mongo connected")
		return repo, closeFn, nil

	case config.StorePostgres:
		if deps.NewDB == nil {
			return nil, nil, fmt.Errorf("bootstrap: postgres store selected without NewDB")
		}
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: open postgres: %w", err)
		}
		closeFn := func() { _ = db.Close() }

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("bootstrap: postgres schema: %w", err)
		}
		logger.Logger.Info().Msg("postgres connected")
		return postgres.NewAccountRepo(db), closeFn, nil
	}

	return nil, nil, fmt.Errorf("bootstrap: unknown store driver %q", cfg.StoreDriver)
}

// openMailer picks the mail transport by MAIL_TRANSPORT. A broker outage in dev
// degrades to the log mailer; elsewhere it fails startup.
func openMailer(deps Deps, cfg *config.Config) (account.Mailer, func(), error) {
	switch cfg.MailTransport {
	case config.MailSMTP:
		return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom), nil, nil

	case config.MailRabbitMQ:
		if deps.NewPublisher == nil {
			return nil, nil, fmt.Errorf("bootstrap: rabbitmq mail selected without NewPublisher")
		}
		pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.IsDev() {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; logging mail instead")
				return mail.NewLogMailer(), nil, nil
			}
			return nil, nil, fmt.Errorf("bootstrap: rabbitmq: %w", err)
		}
		return rabbitmq.NewMailer(pub), func() { _ = pub.Close() }, nil

	case config.MailLog, "":
		return mail.NewLogMailer(), nil, nil
	}

	return nil, nil, fmt.Errorf("bootstrap: unknown mail transport %q", cfg.MailTransport)
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig:   config.Load,
		ConnectMongo: mongodb.Connect,
		NewDB:        config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
