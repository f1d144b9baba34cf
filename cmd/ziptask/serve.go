package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Enzoamyr17/ZipTask/internal/auth"
	"github.com/Enzoamyr17/ZipTask/internal/config"
	"github.com/Enzoamyr17/ZipTask/internal/core"
	"github.com/Enzoamyr17/ZipTask/internal/storage"
	"github.com/Enzoamyr17/ZipTask/internal/web"
)

// appStore is what serve needs from a storage backend.
type appStore interface {
	core.TaskStore
	core.ProjectStore
	auth.UserStore
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		dev        bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ZipTask server",
		Long: `Start the ZipTask HTTP server.

Examples:
  ziptask serve
  ziptask serve --listen :9090
  ziptask serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			return runServe(cfg, dev)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: global then ./ziptask.yaml)")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "in-memory storage, data lost on exit")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func runServe(cfg *config.Config, dev bool) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var store appStore
	if dev {
		log.Println("Using in-memory storage, data is lost on exit")
		store = storage.NewMemoryStore()
	} else {
		sqlStore, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		if !dev {
			return fmt.Errorf("auth secret required: set auth.secret or ZIPTASK_AUTH_SECRET")
		}
		log.Println("No auth secret configured, using a dev-only default")
		secret = "ziptask-dev-secret"
	}

	tasks := core.NewTaskService(store, loc)
	projects := core.NewProjectService(store)
	sessions := auth.NewService(store, []byte(secret), cfg.Auth.TokenTTL)

	unsubscribe := sessions.Subscribe(func(session *core.Session) {
		if session != nil {
			log.Printf("Session started for %s", session.Email)
		} else {
			log.Println("Session ended")
		}
	})
	defer unsubscribe()

	server := web.NewServer(tasks, projects, sessions)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.Router(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("ziptask version %s listening on %s", Version, cfg.Listen)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
