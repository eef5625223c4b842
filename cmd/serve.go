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

	"hourlog/config"
	"hourlog/internal/logging"
	"hourlog/storage"
	"hourlog/web"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for text parsing and stored worklogs",
	Long: `Start an HTTP server exposing:

- GET  /                        health/welcome message
- POST /api/v1/parse-text       {"text": "...", "task_path": ["..."]}
- GET  /api/v1/taxonomy         loaded project/task definitions
- GET  /api/v1/worklogs         stored records (requires --db)
- POST /api/v1/worklogs         store records as one batch (requires --db)
- GET  /api/v1/worklogs/daily   per employee and date summaries (requires --db)
- DELETE /api/v1/worklogs/batches/{batch}`,
	Example: `
  # Start on the configured port (default 8001) without storage
  hourlog serve

  # Start with storage and a custom port
  hourlog serve --port 9090 --db ./hourlog.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		service, index, err := newExtractionService(cfg, nil)
		if err != nil {
			return err
		}

		store, err := openOptionalStore(serveDBPath)
		if err != nil {
			return err
		}
		options := web.Options{
			Taxonomy:       index,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logging.FromContext(context.Background()),
		}
		if store != nil {
			defer store.Close()
			options.Store = store
		}

		port := resolveServePort(cmd.Flags().Changed("port"), servePort, cfg.Server.Port)
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           web.NewServer(service, options),
			ReadHeaderTimeout: 10 * time.Second,
		}

		return runServer(server, port, store)
	},
}

func runServer(server *http.Server, port int, store *storage.SQLiteStore) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	fmt.Printf("Listening on http://localhost:%d\n", port)
	if store == nil {
		fmt.Println("Worklog storage disabled (start with --db to enable /api/v1/worklogs)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// resolveServePort prefers an explicit --port over the configured port.
func resolveServePort(flagChanged bool, flagPort, configPort int) int {
	if flagChanged || configPort <= 0 {
		return flagPort
	}
	return configPort
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8001, "HTTP port (default from server.port)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (empty disables worklog storage)")
}
