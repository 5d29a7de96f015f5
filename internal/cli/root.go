package cli

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

	_ "github.com/asad/blobgate/docs"
	"github.com/asad/blobgate/internal/config"
	"github.com/asad/blobgate/internal/core"
	"github.com/asad/blobgate/internal/httpx"
	"github.com/asad/blobgate/internal/logging"
	"github.com/asad/blobgate/internal/services/files"
	"github.com/asad/blobgate/internal/storage"
)

var (
	// Version is set at build time via ldflags.
	// Example: go build -ldflags "-X github.com/asad/blobgate/internal/cli.Version=1.0.0"
	Version = "dev"
)

const shutdownTimeout = 30 * time.Second

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "blobgate",
	Short: "HTTP gateway for Azure Blob Storage",
	Long: `Blobgate exposes upload, download, delete, list and signed read URLs for one
Azure Blob Storage account over a small HTTP API.

Configuration is read from flags, the environment and an optional .env file.
AZURE_STORAGE_CONNECTION_STRING is required.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway server",
	Long: `Start the gateway HTTP server on the configured port. The server shuts down
gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

// signCmd prints a read URL without starting the server.
var signCmd = &cobra.Command{
	Use:   "sign <container> <blob>",
	Short: "Print a signed, time-limited read URL for a blob",
	Long: `Sign a read-only token for one blob with the configured account key and print
the resulting URL. The token is valid for five minutes. No request is sent to the
storage service.`,
	Args: cobra.ExactArgs(2),
	RunE: runSign,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blobgate version %s\n", Version)
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the entry point for the CLI. It should be called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runStart initializes and starts the HTTP server.
func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting blobgate",
		logging.String("version", Version),
		logging.Int("port", cfg.Port),
		logging.String("log_level", cfg.LogLevel),
		logging.Strings("allowed_extensions", cfg.AllowedExtensions),
	)

	store, err := storage.NewAzureBlobStore(cfg.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	logger.Info("blob store ready", logging.String("account", store.AccountName()))

	registry := core.NewRegistry(
		files.NewFileService(store, cfg.AllowedExtensions, logger),
	)
	router := httpx.NewEdgeRouter(cfg, registry, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func runSign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.NewAzureBlobStore(cfg.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	readURL, err := files.ComposeReadURL(store, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to sign read url: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), readURL)
	return nil
}
