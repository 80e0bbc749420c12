package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/auth"
	"github.com/ziadkadry99/pagecraft/internal/db"
	"github.com/ziadkadry99/pagecraft/internal/editor"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/server"
)

var (
	serverPort     int
	serverAllowAll bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the editing server",
	Long:  `Starts the pagecraft editing server with the REST API, the WebSocket command channel and site export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.Server.AllowAllOrigins = serverAllowAll
		}
		logger := newLogger(cfg)

		// SQLite always holds tokens and the audit trail; projects follow
		// storage.driver.
		database, err := db.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, err := openRepository(ctx, cfg, database)
		if err != nil {
			return fmt.Errorf("opening project storage: %w", err)
		}
		defer repo.Close(context.Background())

		auditStore := audit.NewStore(database)
		manager := editor.NewManager(repo, auditStore, export.New(newGenerator(cfg)), logger, editor.Options{
			HistoryLimit:   cfg.History.Limit,
			AutosaveDelay:  cfg.AutosaveDelay(),
			ExportFilename: cfg.Export.Filename,
			IdleTimeout:    cfg.SessionIdle(),
			MaxAnonymous:   cfg.Server.MaxAnonymousSessions,
		})
		go manager.Run(ctx, time.Minute)

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			RequestTimeout: cfg.RequestTimeout(),
		}, auth.NewTokenStore(database), logger)

		editor.RegisterRoutes(srv.API(), manager, auditStore)
		audit.RegisterRoutes(srv.API(), auditStore)
		editor.RegisterSocket(srv.Router(), manager)

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("pagecraft server starting",
			"version", Version,
			"port", cfg.Server.Port,
			"storage", cfg.Storage.Driver,
			"database", cfg.Storage.SQLitePath,
		)

		err = srv.Start()
		flushCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if flushErr := manager.Close(flushCtx); flushErr != nil {
			logger.Warn("flushing pending saves", "error", flushErr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "Allow all CORS origins (overrides server.allow_all_origins)")
	rootCmd.AddCommand(serverCmd)
}
