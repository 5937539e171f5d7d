// main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinizap/pinnotes/auth"
	"github.com/vinizap/pinnotes/config"
	"github.com/vinizap/pinnotes/filesystem"
	httphandlers "github.com/vinizap/pinnotes/http"
	"github.com/vinizap/pinnotes/store"
	"github.com/vinizap/pinnotes/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	users, err := auth.LoadDirectory(cfg.UsersFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.UsersFile).Msg("load users")
	}
	if users.Len() == 0 {
		logger.Warn().Str("file", cfg.UsersFile).Msg("no users configured, every request is anonymous")
	}
	if cfg.InsecureSecret() {
		logger.Warn().Msg("PIN_NONCE_SECRET not set, using the development secret")
	}

	ajaxURL := strings.TrimSuffix(cfg.PublicURL, "/") + httphandlers.AjaxPath
	server := httphandlers.NewServer(st, auth.NewNonces(cfg.NonceSecret), ajaxURL, logger)
	app := httphandlers.NewApp(server, users)

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("ajax", ajaxURL).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("listen")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.00"})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(cfg.LogLevel).With().Timestamp().Logger()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Info().Str("root", cfg.Root).Msg("using filesystem store")
		return filesystem.NewStore(cfg.Root)
	}
	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	logger.Info().Msg("using postgres store")
	return postgres.Open(ctx, cfg.DatabaseURL, logger)
}
