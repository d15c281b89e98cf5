package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Universe-Development/Freecord/internal/api"
	"github.com/Universe-Development/Freecord/internal/chat"
	"github.com/Universe-Development/Freecord/internal/config"
	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/snowflake"
	"github.com/Universe-Development/Freecord/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	storePath      string
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:9764", "server address")
	flag.StringVar(&storePath, "store", "freecord_data", "path to the store file")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[freecord] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, storePath, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	store, err := database.Open(cfg.StorePath)
	if err != nil {
		logger.Fatal("store open:", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Fatal("store close:", err)
		}
	}()

	if err := chat.Bootstrap(store); err != nil {
		logger.Fatal("bootstrap tables:", err)
	}
	logger.Printf("store ready: %+v", store.GetInfo())

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	svc, err := chat.NewService(logger, store, snowflake.NewNode(), statsUpdater)
	if err != nil {
		logger.Fatal("new chat service:", err)
	}

	srv := api.NewApp(mux, logger, svc, store, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
