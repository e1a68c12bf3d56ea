package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webcode-dev/webcode/internal/config"
	"github.com/webcode-dev/webcode/internal/gateway"
	"github.com/webcode-dev/webcode/internal/logging"
	"github.com/webcode-dev/webcode/internal/product"
	"github.com/webcode-dev/webcode/internal/theme"
)

var (
	serveConfigFile  string
	serveHost        string
	servePort        int
	serveAppRoot     string
	serveToken       string
	serveFolder      string
	serveWorkspace   string
	serveGithubAuth  string
	serveEnableSync  bool
	serveDriver      string
	serveDevMode     bool
	serveProductFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WebCode gateway",
	Long: `Start the HTTP gateway that serves the web editor: the bootstrap
page, static assets, the PWA manifest, and the callback broker.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveConfigFile, "config", "", "Config file (jsonc or yaml)")
	f.StringVar(&serveHost, "host", "", "Hostname to listen on")
	f.IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	f.StringVar(&serveAppRoot, "app-root", "", "Directory containing the built web client")
	f.StringVar(&serveToken, "connection-token", "", "Access token (generated when empty)")
	f.StringVar(&serveFolder, "folder", "", "Folder to open")
	f.StringVar(&serveWorkspace, "workspace", "", "Workspace file to open")
	f.StringVar(&serveGithubAuth, "github-auth", "", "Pre-authorized GitHub token")
	f.BoolVar(&serveEnableSync, "enable-sync", false, "Enable settings sync")
	f.StringVar(&serveDriver, "driver", "", "Automation driver handle")
	f.BoolVar(&serveDevMode, "dev", false, "Serve the development template")
	f.StringVar(&serveProductFile, "product", "", "product.json override")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.For("serve")

	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		return err
	}
	applyServeFlags(cfg)
	token := cfg.EnsureConnectionToken()

	meta := product.Default()
	if serveProductFile != "" {
		if meta, err = product.Load(serveProductFile); err != nil {
			return err
		}
	}
	meta.Version = Version

	themeProvider := theme.NewFileProvider(cfg.ThemeFile)
	defer themeProvider.Close()

	srv, err := gateway.New(cfg, meta, themeProvider)
	if err != nil {
		return err
	}

	go func() {
		log.Info().
			Str("addr", cfg.Host).
			Int("port", cfg.Port).
			Msg("gateway listening")
		log.Info().Msgf("open http://%s:%d/?tkn=%s", cfg.Host, cfg.Port, token)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Flags override whatever the config file provided.
func applyServeFlags(cfg *config.Config) {
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveAppRoot != "" {
		cfg.AppRoot = serveAppRoot
	}
	if serveToken != "" {
		cfg.ConnectionToken = serveToken
	}
	if serveFolder != "" {
		cfg.Folder = serveFolder
	}
	if serveWorkspace != "" {
		cfg.Workspace = serveWorkspace
	}
	if serveGithubAuth != "" {
		cfg.GithubAuth = serveGithubAuth
	}
	if serveEnableSync {
		cfg.EnableSync = true
	}
	if serveDriver != "" {
		cfg.DriverHandle = serveDriver
	}
	if serveDevMode {
		cfg.DevMode = true
	}
}
