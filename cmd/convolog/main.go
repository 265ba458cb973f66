package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"convolog/internal/export"
	"convolog/pkg/analytics"
	"convolog/pkg/api"
	"convolog/pkg/banner"
	"convolog/pkg/config"
	"convolog/pkg/convo"
	"convolog/pkg/logger"
	"convolog/pkg/store"
)

// build metadata - set via ldflags during release
var (
	version = "dev"
)

func main() {
	_ = godotenv.Load(".env")

	addrFlag := flag.String("addr", "", "listen address (host:port), overrides config")
	dbFlag := flag.String("db", "", "journal path, overrides config")
	cfgFlag := flag.String("config", os.Getenv("CONVOLOG_CONFIG"), "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*cfgFlag)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Logging.Level)

	addr := cfg.Addr()
	if *addrFlag != "" {
		addr = *addrFlag
	}
	dbPath := cfg.Storage.DBPath
	if *dbFlag != "" {
		dbPath = *dbFlag
	}

	lex := analytics.DefaultLexicon().Extend(cfg.Analytics.Positive, cfg.Analytics.Negative, cfg.Analytics.StopWords)
	cls, err := analytics.NewClassifier(lex)
	if err != nil {
		log.Fatalf("sentiment config: %v", err)
	}
	ext, err := analytics.NewExtractor(cfg.Analytics.WindowSize, cfg.Analytics.TopKeywords, cfg.Analytics.MinTokenLen, lex)
	if err != nil {
		log.Fatalf("topic config: %v", err)
	}
	agg := analytics.NewAggregator(cls, ext)

	var journal convo.Journal
	if dbPath != "" {
		if err := store.Open(dbPath); err != nil {
			log.Fatalf("failed to open journal: %v", err)
		}
		defer func() { _ = store.Close() }()
		journal = store.NewJournal()
	}
	reg := convo.NewRegistry(journal)
	if journal != nil {
		if err := replay(reg, journal); err != nil {
			log.Fatalf("failed to replay journal: %v", err)
		}
	}

	banner.Print(addr, dbPath, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cancelExport, err := export.Start(ctx, cfg.Export, reg, agg)
	if err != nil {
		log.Fatalf("failed to start export scheduler: %v", err)
	}
	defer cancelExport()

	root := http.NewServeMux()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	root.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if dbPath != "" && !store.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","version":"` + version + `"}`))
	})
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", api.New(reg, agg, cfg.Security).Router())

	srv := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info("server_listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
}

// replay restores every journaled conversation into the registry.
func replay(reg *convo.Registry, journal convo.Journal) error {
	ids, err := store.Conversations()
	if err != nil {
		return err
	}
	for _, id := range ids {
		msgs, rxs, err := store.Replay(id)
		if err != nil {
			return err
		}
		l, err := convo.Restore(id, msgs, rxs, journal)
		if err != nil {
			return err
		}
		if err := reg.Attach(l); err != nil {
			return err
		}
		logger.Info("conversation_restored", "convo", id, "messages", len(msgs), "reactions", len(rxs))
	}
	return nil
}
