package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docshell/internal/db"
	"github.com/ziadkadry99/docshell/internal/events"
	"github.com/ziadkadry99/docshell/internal/experiments"
	"github.com/ziadkadry99/docshell/internal/languages"
	"github.com/ziadkadry99/docshell/internal/server"
	"github.com/ziadkadry99/docshell/internal/session"
	"github.com/ziadkadry99/docshell/internal/shell"
	"github.com/ziadkadry99/docshell/internal/theme"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation site",
	Long:  `Starts the docs site HTTP server: rendered pages, static assets, the events API and the client session websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		st, err := buildSite(cfg, logger)
		if err != nil {
			return err
		}

		// Open database.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "docshell.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, logger)

		registerRoutes(srv, st, events.NewStore(database), cfg.AssetsDir)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("docshell starting",
			"version", Version,
			"port", cfg.Port,
			"database", dbPath,
			"content", cfg.ContentDir,
			"documents", st.library.Len(),
			"languages", len(st.registry.Codes()),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerRoutes wires every feature onto the server's router.
func registerRoutes(srv *server.Server, st *site, store *events.Store, assetsDir string) {
	r := srv.Router()
	timed := srv.Timed(60 * time.Second)

	// Shell assets and the static asset tree.
	shell.RegisterRoutes(timed)
	timed.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))

	// Events API
	events.RegisterRoutes(timed, store)

	// Client sessions are long-lived and skip the timeout.
	session.RegisterRoutes(r, session.NewHandler(store, experiments.Defaults, theme.CookieResolver{}, srv.Logger()))

	// Pages run behind the languages middleware; the not-found page does not.
	timed.With(languages.Middleware(st.registry)).Get("/*", st.shell.Handler(st.docs))
	r.NotFound(st.shell.NotFoundHandler())
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
