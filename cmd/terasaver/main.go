package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/botzwala/terasaver/internal/admin"
	"github.com/botzwala/terasaver/internal/bot"
	"github.com/botzwala/terasaver/internal/config"
	"github.com/botzwala/terasaver/internal/gate"
	"github.com/botzwala/terasaver/internal/janitor"
	"github.com/botzwala/terasaver/internal/logger"
	"github.com/botzwala/terasaver/internal/relay"
	"github.com/botzwala/terasaver/internal/resolver"
	"github.com/botzwala/terasaver/internal/server"
	"github.com/botzwala/terasaver/internal/shortener"
	"github.com/botzwala/terasaver/internal/store"
)

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("TELEGRAM_API_TOKEN")
	}
	if cfg.Bot.Token == "" {
		return config.Config{}, fmt.Errorf("bot token is required (config or TELEGRAM_API_TOKEN)")
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideBotAPI(cfg config.Config, log *slog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	log.Info("authorized", slog.String("username", api.Self.UserName))
	return api, nil
}

func provideStoreBackend(cfg config.Config) store.Backend {
	if cfg.Store.URL != "" {
		return store.NewHTTPBackend(cfg.Store.URL, &http.Client{Timeout: config.DefaultHTTPTimeout})
	}
	return store.NewFileBackend(cfg.Store.Path)
}

func provideStore(log *slog.Logger, cfg config.Config, backend store.Backend) *store.Service {
	return store.NewService(log, backend, cfg.Shortener.Endpoints)
}

func provideGate(log *slog.Logger, cfg config.Config, api *tgbotapi.BotAPI, st *store.Service) *gate.Service {
	checker := bot.NewChannelChecker(api, cfg.Bot.ChannelUsername)
	return gate.NewService(log, checker, st, cfg.Bot.VerifyWindow.Std(), cfg.Bot.Cooldown.Std())
}

func provideResolver(log *slog.Logger, cfg config.Config) *resolver.Client {
	return resolver.NewClient(log, cfg.Resolver.URL, &http.Client{Timeout: cfg.Resolver.Timeout.Std()})
}

func provideShortener(log *slog.Logger, cfg config.Config, st *store.Service) *shortener.Client {
	return shortener.NewClient(log, st, &http.Client{Timeout: cfg.Shortener.Timeout.Std()})
}

func provideRelay(log *slog.Logger, cfg config.Config) *relay.Service {
	return relay.NewService(log, cfg.Relay.DownloadsDir, &http.Client{Timeout: cfg.Relay.Timeout.Std()})
}

func provideAdmin(log *slog.Logger, cfg config.Config, st *store.Service, g *gate.Service) *admin.Service {
	return admin.NewService(log, st, g, cfg.Bot.AdminIDs)
}

func provideBot(log *slog.Logger, cfg config.Config, api *tgbotapi.BotAPI, st *store.Service,
	g *gate.Service, res *resolver.Client, short *shortener.Client, rel *relay.Service,
	console *admin.Service,
) *bot.Bot {
	return bot.New(log, api, bot.Options{
		Username:    api.Self.UserName,
		Channel:     cfg.Bot.ChannelUsername,
		TutorialURL: cfg.Bot.TutorialURL,
	}, st, g, res, short, rel, console)
}

func provideServer(log *slog.Logger, cfg config.Config) *server.Server {
	return server.New(log, cfg.Server.Addr)
}

func provideJanitor(log *slog.Logger, cfg config.Config) (*janitor.Janitor, error) {
	return janitor.New(log, cfg.Relay.DownloadsDir, cfg.Janitor.MaxAge.Std(), cfg.Janitor.Spec)
}

func startBot(lc fx.Lifecycle, api *tgbotapi.BotAPI, b *bot.Bot) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			updateConfig := tgbotapi.NewUpdate(0)
			updateConfig.Timeout = 30
			updates := api.GetUpdatesChan(updateConfig)
			go b.Run(runCtx, updates)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			api.StopReceivingUpdates()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Error("server failed", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}

func startJanitor(lc fx.Lifecycle, j *janitor.Janitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			j.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			j.Stop()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBotAPI,
			provideStoreBackend,
			provideStore,
			provideGate,
			provideResolver,
			provideShortener,
			provideRelay,
			provideAdmin,
			provideBot,
			provideServer,
			provideJanitor,
		),
		fx.Invoke(
			startServer,
			startJanitor,
			startBot,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}
