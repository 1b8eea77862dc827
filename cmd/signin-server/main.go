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

	"tsu-signin/internal/app/signin/adapter"
	"tsu-signin/internal/app/signin/controller"
	"tsu-signin/internal/pkg/config"
	"tsu-signin/internal/pkg/log"
	"tsu-signin/internal/pkg/metrics"
	"tsu-signin/internal/pkg/nats"
	"tsu-signin/internal/pkg/redis"
	"tsu-signin/internal/pkg/security"
	"tsu-signin/internal/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志系统
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)

	if err := run(cfg); err != nil {
		log.Error("Signin 服务异常退出", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger := log.GetLogger()
	logger.Info("配置加载完成", log.Any("config", cfg.LogFields()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeMetrics := metrics.DefaultStoreMetrics()

	// --- 1. 基础设施 ---
	rdb, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, storeMetrics)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var store adapter.CredentialStore
	switch cfg.CredentialStore {
	case config.StorePostgres:
		db, err := adapter.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		store = adapter.NewPostgresCredentialStore(db, storeMetrics)
	default:
		store = adapter.NewRedisCredentialStore(rdb)
	}

	// --- 2. 依赖注入 ---
	hasher, err := security.NewHasher(security.DefaultHasherConfig())
	if err != nil {
		return err
	}
	issuer, err := security.NewTokenIssuer(security.TokenConfig{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})
	if err != nil {
		return err
	}

	auth, err := adapter.NewCredentialAuthenticator(store, hasher, issuer, adapter.NewRedisSessionRecorder(rdb), logger)
	if err != nil {
		return err
	}

	signin, err := controller.NewSigninController(auth, validator.NewEmailChecker(),
		controller.WithLogger(logger),
		controller.WithMetrics(metrics.DefaultSigninMetrics()),
	)
	if err != nil {
		return err
	}

	// 事件发布是尽力而为的，NATS 不可用时服务照常启动
	var events controller.EventPublisher
	if cfg.Events.NATSURL != "" {
		nc, err := nats.Connect(cfg.Events.NATSURL, "tsu-signin")
		if err != nil {
			logger.Warn("NATS 不可用，登录事件不会发布", log.Any("error", err))
		} else {
			defer func() { _ = nc.Drain() }()
			events = adapter.NewSigninEventPublisher(nats.NewPublisher(nc), cfg.Events.Subject)
			logger.Info("登录事件发布已启用", log.String("subject", cfg.Events.Subject))
		}
	}

	httpHandler := controller.NewHTTPHandler(signin, events, cfg.AuthTimeout, logger)

	// --- 3. 路由和中间件 ---
	e := newServer(httpHandler, logger)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	// --- 4. 启动与优雅关闭 ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Signin 服务启动", log.String("address", cfg.HTTPAddr), log.String("credential_store", cfg.CredentialStore))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务关闭失败: %w", err)
	}
	logger.Info("服务已安全关闭")
	return nil
}
