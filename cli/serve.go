package cli

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"salary-band/config"
	httpLayer "salary-band/http"
	"salary-band/repository"
	"salary-band/service"
)

func serveCmd(verbose *bool) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			setupLogging(cfg, *verbose)

			return serve(cmd.Context(), cfg)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "Listen address (overrides BAND_ADDR)")
	return c
}

func newBandRepository(ctx context.Context, cfg config.Config) (repository.BandRepository, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("storing bands in memory")
		return repository.NewBandRepositoryMemory(), func() {}, nil
	}

	repo := repository.NewRedisBandRepository(cfg.RedisAddr)
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	log.WithField("addr", cfg.RedisAddr).Info("storing bands in redis")
	return repo, func() { _ = repo.Close() }, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bandRepo, closeRepo, err := newBandRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	bandService := service.NewBandService(bandRepo)
	analysisService := service.NewAnalysisService()

	proxies := make([]netip.Prefix, 0, len(cfg.TrustedProxies))
	for _, p := range cfg.TrustedProxies {
		proxy, err := config.ParseProxy(p)
		if err != nil {
			return err
		}
		proxies = append(proxies, proxy)
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer rateLimiter.Stop()
	rateLimiter.TrustProxies(proxies...)
	if len(proxies) > 0 {
		log.WithField("proxies", cfg.TrustedProxies).Info("honoring X-Forwarded-For from trusted proxies")
	}

	mux := httpLayer.NewRouter(
		httpLayer.NewAnalysisHandler(analysisService, bandService),
		httpLayer.NewBandHandler(bandService),
		rateLimiter,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  4 * cfg.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		log.WithError(err).Error("starting server")
		return err
	case <-quit:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("during server shutdown")
		return err
	}

	log.Info("server exited")
	return nil
}
