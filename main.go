package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/group-table/archive"
	"github.com/danielhkuo/group-table/cliparse"
	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/provider"
	"github.com/danielhkuo/group-table/router"
	"github.com/danielhkuo/group-table/store"
)

func main() {
	// Load .env for local development; absence is fine in production
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Pick the session store backend
	var st store.Store
	switch cfg.StoreType {
	case cliparse.StoreRedis:
		st, err = store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	case cliparse.StoreRethink:
		st, err = store.NewRethinkStore(cfg.RethinkAddrs)
	default:
		st = store.NewMemoryStore()
	}
	if err != nil {
		slog.Error("store connection failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Session store ready", "store", cfg.StoreType)

	// Archiving is optional; no URL means ended sessions are simply dropped
	var arch *archive.Archive
	if cfg.ArchiveURL != "" {
		arch, err = archive.Open(cfg.ArchiveDriver, cfg.ArchiveURL)
		if err != nil {
			slog.Error("archive connection failed", "error", err)
			os.Exit(1)
		}
		defer arch.Close()
		slog.Info("Archive database ready", "driver", cfg.ArchiveDriver)
	}

	yelp := provider.NewYelpClient(cfg.YelpAPIKey, cfg.YelpAPIURL)

	var archiver coordinator.Archiver
	if arch != nil {
		archiver = arch
	}
	coord := coordinator.New(st, yelp, archiver)

	// Create router
	mux := router.NewRouter(coord, yelp, arch)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
