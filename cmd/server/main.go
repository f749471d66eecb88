package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RakanBA/AYAN/internal/app"
	"github.com/RakanBA/AYAN/internal/archive"
	"github.com/RakanBA/AYAN/internal/catalog"
	"github.com/RakanBA/AYAN/internal/config"
	"github.com/RakanBA/AYAN/internal/gamification"
	"github.com/RakanBA/AYAN/internal/httpapi"
	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/recognition"
	"github.com/RakanBA/AYAN/internal/store"
)

func main() {
	if err := config.LoadFiles(config.DefaultFiles...); err != nil {
		log.Printf("load config files failed: %v", err)
	}
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer lg.Sync()

	if strings.EqualFold(cfg.LogMode, "prod") || strings.EqualFold(cfg.LogMode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.NewByEngine(cfg.StoreEngine, store.Options{
		Path:        cfg.DataFile,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		lg.Fatal("init store failed", "engine", cfg.StoreEngine, "err", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			lg.Warn("store close failed", "err", err)
		}
	}()

	game := gamification.New(st, gamification.DefaultRules(), lg)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	game.Load(loadCtx)
	cancelLoad()

	cat := catalog.Default()

	client, err := recognition.NewClient(recognition.Config{
		BuildingURL: cfg.BuildingURL,
		LandmarkURL: cfg.LandmarkURL,
		InfoURL:     cfg.InfoURL,
		Timeout:     cfg.ClassifierTimeout,
	})
	if err != nil {
		lg.Fatal("init classifier client failed", "err", err)
	}
	if !client.HasInfo() {
		lg.Info("landmark enrichment disabled, AYAN_INFO_API_URL is empty")
	}

	var archiver archive.Archiver = archive.Nop{}
	if cfg.COS.Enabled() {
		cosArchiver, err := archive.NewCOS(cfg.COS)
		if err != nil {
			lg.Fatal("init capture archive failed", "err", err)
		}
		archiver = cosArchiver
		lg.Info("capture archive enabled", "bucket", cfg.COS.BucketName, "region", cfg.COS.Region)
	}

	core := app.New(app.Deps{
		Game:       game,
		Catalog:    cat,
		Identifier: recognition.NewPipeline(client, cat, lg),
		Archiver:   archiver,
		Logger:     lg,
	})

	var policy httpapi.OriginPolicy
	if secure, ok := cfg.OriginSecure(); ok {
		policy = httpapi.FixedOrigin(secure)
	}
	handler := httpapi.NewHandler(core, lg, policy)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:     handler,
		Logger:      lg,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("ayan backend listening", "addr", cfg.Addr, "store", cfg.StoreEngine, "landmarks", cat.Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", "err", err)
	}
}
