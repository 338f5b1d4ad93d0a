package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"manage-rtc/backend/config"
	"manage-rtc/backend/internal/api/handler"
	"manage-rtc/backend/internal/api/router"
	"manage-rtc/backend/internal/repository"
	"manage-rtc/backend/internal/service"
	"manage-rtc/backend/pkg/database"
	"manage-rtc/backend/pkg/jwt"
	applogger "manage-rtc/backend/pkg/logger"
	"manage-rtc/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接 system 注册库并执行迁移
	systemDB, err := database.NewSystemDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("system 库连接失败", zap.Error(err))
	}
	sqlDB, err := systemDB.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunSystemMigrations(sqlDB, logger); err != nil {
		logger.Fatal("system 库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: 租户管理器 → Repository → Service → Handler
	// 租户库按需打开，首次访问时自动迁移
	tenants := database.NewTenantManager(&cfg.Database, systemDB, logger)
	repos := repository.NewManager(tenants, systemDB)
	svc := service.NewService(repos, logger, cfg.Scheduler.Cron)
	h := handler.NewHandler(svc, logger)

	// 7. 启动离职到期调度器（有 Redis 时启用跨实例锁）
	if cfg.Scheduler.Enabled {
		if rdb != nil {
			svc.Scheduler.WithLocker(rdb)
		}
		if err := svc.Scheduler.Start(); err != nil {
			logger.Fatal("离职调度器启动失败", zap.Error(err))
		}
	} else {
		logger.Info("离职调度器已禁用")
	}

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if cfg.Scheduler.Enabled {
		svc.Scheduler.Stop()
	}

	// 关闭租户库与 system 库连接
	tenants.Close()
	if closeDB, _ := systemDB.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("应用已退出")
}
