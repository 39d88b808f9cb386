package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"

	"tg_garant/internal/config"
	dealsvc "tg_garant/internal/domain/service/deal"
	draftsvc "tg_garant/internal/domain/service/draft"
	"tg_garant/internal/infrastructure/memstore"
	"tg_garant/internal/server"
	"tg_garant/internal/transport/bot"
	"tg_garant/internal/transport/bot/handler"
	"tg_garant/internal/transport/bot/panel"
	"tg_garant/internal/worker"
	"tg_garant/pkg/application/modules"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
	"tg_garant/pkg/metrics"
	"tg_garant/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const logFieldMaxLen = 2048

// Run собирает все зависимости и держит процесс до отмены контекста.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// Хранилища: всё состояние живёт в памяти процесса.
	registry := memstore.NewRegistry(cfg.Deal.HistoryLimit)
	parties := memstore.NewPartyStore()
	dealMetrics := metrics.NewDealMetrics()

	// Единственный клиент Telegram на процесс.
	tgBot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telego.NewBot: %w", err)
	}

	panels := panel.NewManager(tgBot)
	notifier := bot.NewNotifier(panels, cfg.Bot.Username)

	dealService := dealsvc.NewService(
		registry,
		parties,
		notifier,
		notifier,
		dealsvc.Timing{
			LinkTTL:          cfg.Deal.LinkTTL,
			SellerConfirmTTL: cfg.Deal.SellerConfirmTTL,
			ConfirmDelayMin:  cfg.Deal.ConfirmDelayMin,
			ConfirmDelayMax:  cfg.Deal.ConfirmDelayMax,
		},
	).WithMetrics(dealMetrics)

	draftService := draftsvc.NewService(parties, dealService)

	commandHandler := handler.New(dealService, draftService, parties, panels, cfg.Bot.AdminID)

	tgTransport, err := bot.New(tgBot, commandHandler)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	sweeper := worker.NewExpirySweeper(dealService).WithInterval(cfg.Deal.SweepInterval)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tgTransport.Run(ctx)
	})

	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, newHTTPServer(ctx, cfg, dealService))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.HTTP.MetricListenAddress}.Run(ctx, g)

	logger(ctx).Info("application started")

	if err := g.Wait(); err != nil && !isCanceled(ctx, err) {
		return fmt.Errorf("g.Wait: %w", err)
	}

	logger(ctx).Info("application stopped")

	return nil
}

func newHTTPServer(ctx context.Context, cfg config.Config, dealService *dealsvc.Service) *http.Server {
	router := chi.NewRouter()

	masker := logx.NewSensitiveDataMasker()

	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	server.NewServer(
		server.NewDealServer(dealService),
	).RegisterRoutes(router)

	return &http.Server{ //nolint:exhaustruct
		Addr:    cfg.HTTP.ListenAddress,
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, context.Canceled)
}
