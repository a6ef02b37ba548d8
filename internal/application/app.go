package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	router "github.com/nafijninja/genx/internal/adapters/http"
	"github.com/nafijninja/genx/internal/adapters/http/handler"
	"github.com/nafijninja/genx/internal/adapters/http/middleware"
	"github.com/nafijninja/genx/internal/domain"
	"github.com/nafijninja/genx/internal/infrastructure/browser"
	config "github.com/nafijninja/genx/internal/infrastructure/configs"
	"github.com/nafijninja/genx/internal/infrastructure/magicstudio"
	"github.com/nafijninja/genx/internal/infrastructure/queue"
	"github.com/nafijninja/genx/internal/usecase"
	"github.com/nafijninja/genx/pkg/logger"
)

const upstreamTimeout = 2 * time.Minute

type App struct {
	Cfg *config.Config
}

func (a App) routerConfig(service string, log domain.LoggingRepository) router.RouterConfig {
	cfg := router.RouterConfig{
		Service:        service,
		Logger:         log,
		StaticDir:      a.Cfg.StaticDir,
		MaxAllowedSize: a.Cfg.MaxAllowedSize,
	}
	if a.Cfg.RateLimitEnabled() {
		cfg.IpRateLimiter = middleware.NewIpLimiter()
		cfg.RateLimitCapacity = a.Cfg.RataLimitCapacity
		cfg.RateLimitFillRate = a.Cfg.RataLimitFillRate
	}
	return cfg
}

// RunDirect serves the service that forwards prompts to the image API.
func (a App) RunDirect() {
	log := logger.NewLogger(a.Cfg.LogFile, "directapi")

	client := magicstudio.NewClient(magicstudio.DefaultEndpoint, upstreamTimeout, log)
	svc := usecase.NewDirectGenerationService(client, log)

	routerCfg := a.routerConfig("directapi", log)
	routerCfg.DirectHandler = handler.NewDirectHandler(svc, log)

	a.serve(router.SetupRoutes(routerCfg), log)
}

// RunBrowser serves the service that drives the shared headless browser.
func (a App) RunBrowser() {
	rootctx, rootcancel := context.WithCancel(context.Background())
	defer rootcancel()

	log := logger.NewLogger(a.Cfg.LogFile, "browser")

	session := browser.NewSessionManager(browser.MagicStudio(), a.Cfg.ChromePath, log)
	pool := queue.NewWorkerPool(rootctx, 1, a.Cfg.BrowserQueueSize, log)
	pool.Start()

	svc := usecase.NewBrowserGenerationService(session, pool, usecase.DefaultBrowserTimings(), log)

	routerCfg := a.routerConfig("browser", log)
	routerCfg.BrowserHandler = handler.NewBrowserHandler(svc, log)
	routerCfg.SessionActive = session.Active

	a.serve(router.SetupRoutes(routerCfg), log)

	pool.Cancel()
	pool.Close()
	pool.Wait()
	session.Close()

	log.Info("check number of goroutine", "number", runtime.NumGoroutine())
}

// serve blocks until SIGINT or SIGTERM, then shuts the server down within
// the configured timeout.
func (a App) serve(h http.Handler, log domain.LoggingRepository) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Cfg.ServerPort),
		Handler: h,
	}

	go func() {
		log.Info("server running", "url.full", fmt.Sprintf("http://localhost:%d", a.Cfg.ServerPort))
		serverErr := server.ListenAndServe()
		if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
			log.Error("failed to start the server", "reason", serverErr.Error())
			os.Exit(1)
		}
	}()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan

	shutdownctx, shutdowncancelFunc := context.WithTimeout(context.Background(), time.Duration(a.Cfg.ServerShutdownTimeout)*time.Second)
	defer shutdowncancelFunc()
	if err := server.Shutdown(shutdownctx); err != nil {
		log.Error("server closed with error", "reason", err.Error())
	}
	log.Info("server stopped")
}
