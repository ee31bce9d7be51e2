package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/smartbuy/auth/core"
	authmodule "github.com/smartbuy/auth/modules/auth"
	"github.com/smartbuy/auth/pkg/auth"
	"github.com/smartbuy/auth/pkg/config"
	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/httpserver"
	"github.com/smartbuy/auth/pkg/jwt"
	"github.com/smartbuy/auth/pkg/logger"
	"github.com/smartbuy/auth/pkg/magiclink"
	"github.com/smartbuy/auth/pkg/oauth"
	"github.com/smartbuy/auth/pkg/pg"
)

type appConfig struct {
	JWTSecret string `env:"JWT_SECRET,required"`
	RedisURL  string `env:"REDIS_URL"`
}

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New("auth", logCfg)

	if err := run(context.Background(), log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		appCfg  appConfig
		pgCfg   pg.Config
		httpCfg httpserver.Config
		mailCfg email.Config
		linkCfg magiclink.Config
		authCfg auth.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&linkCfg)
	config.MustLoad(&authCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	sessions, err := jwt.NewFromString(appCfg.JWTSecret)
	if err != nil {
		return err
	}

	sender, err := newEmailSender(mailCfg, log)
	if err != nil {
		return err
	}

	store, closeStore, err := newLinkStore(appCfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeStore()

	links := magiclink.NewService(store, sender, linkCfg, magiclink.WithLogger(log))

	opts := []auth.Option{
		auth.WithLogger(log),
		auth.WithMagicLinks(links),
		auth.WithEmailSender(sender),
	}
	if exchanger, ok := newGoogleClient(ctx, log); ok {
		opts = append(opts, auth.WithGoogle(exchanger))
	}

	svc := auth.NewService(auth.NewPostgresStorage(pool), sessions, appCfg.JWTSecret, authCfg, opts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(pg.Healthcheck(pool)))
	r.Mount("/", authmodule.NewModule(svc, sessions, authmodule.WithLogger(log)).Router())

	log.Info("starting server", slog.String("addr", httpCfg.Addr))
	return httpserver.New(httpCfg, log).Run(ctx, r)
}

// newEmailSender picks Postmark when a server token is configured, the
// log-only sender otherwise.
func newEmailSender(cfg email.Config, log *slog.Logger) (email.EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		log.Warn("no postmark token configured, emails will only be logged")
		return email.NewDevSender(log), nil
	}
	return email.NewPostmarkSender(cfg)
}

// newLinkStore picks Redis when REDIS_URL is set, an in-process store
// otherwise. Single-instance deployments work fine on the memory store; the
// Redis store is for running more than one replica.
func newLinkStore(redisURL string) (magiclink.Store, func(), error) {
	if redisURL == "" {
		store := magiclink.NewMemoryStore(magiclink.DefaultCleanupInterval)
		return store, store.Close, nil
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(redisOpts)
	return magiclink.NewRedisStore(client), func() { _ = client.Close() }, nil
}

// newGoogleClient wires the OAuth flow when the Google credentials are
// present. The flow stays unmounted otherwise; the rest of the service does
// not depend on it.
func newGoogleClient(ctx context.Context, log *slog.Logger) (auth.CodeExchanger, bool) {
	var cfg oauth.GoogleConfig
	if err := config.Load(&cfg); err != nil {
		log.Warn("google oauth not configured", logger.Error(err))
		return nil, false
	}

	var verifier oauth.IDTokenVerifier
	if cfg.InsecureSkipIDTokenVerify {
		log.Warn("google id token verification is disabled")
		verifier = oauth.InsecureClaimsDecoder{}
	} else {
		v, err := oauth.NewOIDCVerifier(ctx, oauth.GoogleIssuer, cfg.ClientID)
		if err != nil {
			log.Error("failed to init google id token verifier", logger.Error(err))
			return nil, false
		}
		verifier = v
	}

	return oauth.NewGoogleClient(cfg, verifier), true
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			core.Text(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
		core.JSON(w, http.StatusOK, core.Message{Message: "ok"})
	}
}
