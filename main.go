package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "busbackend/internal/config"
	intdb "busbackend/internal/db"
	"busbackend/internal/events"
	router "busbackend/internal/http"
	"busbackend/internal/http/handlers"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	configPath string
	addr       string
	migrate    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("busbackend", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", os.Getenv("APP_CONFIG"), "path to a YAML config file")
	fs.StringVar(&opts.addr, "addr", "", "listen address, overrides APP_ADDR")
	fs.BoolVar(&opts.migrate, "migrate", false, "create missing tables before serving")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	env, err := intconfig.LoadEnv(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		env.AppAddr = opts.addr
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.InitLogger(env.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	secret, err := env.Secret()
	if err != nil {
		return err
	}
	loc, err := env.Location()
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", env.TimeZone, err)
	}

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer intconfig.CloseDB()

	if opts.migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := intdb.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema ready")
	}

	bus := events.NewBus(logger)

	r := router.NewRouter(env, handlers.Runtime{
		Secret:   secret,
		TokenTTL: env.TokenTTL(),
		Location: loc,
		Events:   bus,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bus.RunAudit(gctx, nil)
	})
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := bus.Close(); cerr != nil {
			logger.Warn("event bus close failed", zap.Error(cerr))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
