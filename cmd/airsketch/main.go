package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/logging"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tray"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file with AIRSKETCH_* variables")
	addr := flag.String("addr", "", "listen address (overrides AIRSKETCH_ADDR)")
	dataDir := flag.String("data", "", "data directory (overrides AIRSKETCH_DATA_DIR)")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "airsketch: %v\n", err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *noTray {
		cfg.Tray = false
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("airsketch failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return xerrors.New(fmt.Errorf("create data directory: %w", err))
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return xerrors.New(fmt.Errorf("open store: %w", err))
	}
	defer st.Close()

	camera := capture.DefaultCameraConfig()
	camera.DeviceID = cfg.CameraID
	camera.Mirror = cfg.Mirror

	activity := capture.DefaultActivityConfig()
	activity.MotionThreshold = cfg.MotionThreshold

	application, err := app.New(app.Config{
		Store:    st,
		Camera:   camera,
		Activity: activity,
		Engine:   cfg.Engine,
		Logger:   logger,
	})
	if err != nil {
		return xerrors.New(err)
	}
	defer application.Close()

	if err := application.LoadSettings(); err != nil {
		logger.Warn("could not restore settings", slog.Any("error", err))
	}

	// Without a camera the settings API still works, so keep serving.
	if err := application.Start(); err != nil {
		logger.Error("camera unavailable", slog.Any("error", xerrors.New(err)))
	}

	webDir := findWebDir(cfg.WebDir, cfg.DataDir)
	if webDir != "" {
		logger.Info("serving static files", slog.String("dir", webDir))
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(cfg.Addr)
		stop()
	}()

	if cfg.Tray {
		runTray(ctx, stop, application, "http://"+browserAddr(cfg.Addr), logger)
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("server shutdown", slog.Any("error", err))
	}

	select {
	case err := <-serveErr:
		if err != nil {
			return xerrors.New(fmt.Errorf("serve %s: %w", cfg.Addr, err))
		}
	default:
	}
	return nil
}

// runTray blocks in the tray's event loop until the user quits or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, url string, logger *slog.Logger) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnClear(a.ClearCanvas)
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			logger.Warn("could not open browser", slog.String("url", url), slog.Any("error", err))
		}
	})
	t.OnQuit(stop)

	frames, cancel := a.Subscribe()
	defer cancel()
	go t.Watch(frames)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

// browserAddr turns a listen address such as ":8080" into one a browser
// can open.
func browserAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir returns the first existing directory among preferred, its
// parents' web directories and dataDir/web, or "" if none exists.
func findWebDir(preferred, dataDir string) string {
	candidates := []string{preferred, "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
