package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orthoweb/orthoweb/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the generated web map locally",
	Long: `Start a local HTTP server over the project directory so the generated
map can be checked before uploading. Everything is served as static files;
no tiles are rendered on demand.

Examples:
  # Preview the current project on port 8080
  orthoweb serve

  # Preview another project on all interfaces
  orthoweb serve --project /data/survey2024 --bind 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("project", "p", ".", "project directory to serve")
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")

	viper.BindPFlag("server.project", serveCmd.Flags().Lookup("project"))
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	root := viper.GetString("server.project")
	addr := fmt.Sprintf("%s:%d", viper.GetString("server.bind"), viper.GetInt("server.port"))
	timeout := viper.GetDuration("server.timeout")

	srv := server.New(root, version)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down preview server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	logger.Info("serving project", "dir", root, "addr", "http://"+addr)
	logger.Info("viewer", "url", fmt.Sprintf("http://%s/web/", addr))

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %v", err)
	}

	return nil
}
