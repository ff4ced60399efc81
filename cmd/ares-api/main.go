package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/webnazakazku/Ares"
	"github.com/webnazakazku/Ares/internal/platform/config"
	"github.com/webnazakazku/Ares/internal/platform/logger"
	phttp "github.com/webnazakazku/Ares/internal/platform/net/http"
	"github.com/webnazakazku/Ares/internal/services/api"
)

func main() {
	root := config.New()
	aresCfg := root.Prefix("ARES_")
	apiCfg := root.Prefix("API_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	client, err := ares.New(ares.Config{
		CacheDir:           aresCfg.MayString("CACHE_DIR", ""),
		CacheEpochFormat:   aresCfg.MayString("CACHE_EPOCH", ""),
		Balancer:           aresCfg.MayString("BALANCER", ""),
		Debug:              aresCfg.MayBool("DEBUG", false),
		InsecureSkipVerify: aresCfg.MayBool("INSECURE_SKIP_VERIFY", false),
		Timeout:            aresCfg.MayDuration("TIMEOUT", 10*time.Second),
		RequestsPerSecond:  aresCfg.MayFloat64("RPS", 0),
	})
	if err != nil {
		l.Panic().Err(err).Msg("resolver init failed")
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Mux(), api.Options{Resolver: client})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
