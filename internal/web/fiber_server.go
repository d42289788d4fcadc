// internal/web/fiber_server.go
package web

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"station-hopper/config"
	"station-hopper/internal/utils"
	"station-hopper/internal/web/middleware"
	"station-hopper/internal/web/routes"
	webUtils "station-hopper/internal/web/utils"
)

// FiberServer Fiber 기반 API 서버
type FiberServer struct {
	app       *fiber.App
	config    *config.Config
	logger    *utils.Logger
	isRunning atomic.Bool
}

// NewFiberServer 새로운 Fiber 서버 생성
func NewFiberServer(deps *routes.Dependencies) *FiberServer {
	app := fiber.New(fiber.Config{
		AppName:               "station-hopper",
		ErrorHandler:          middleware.ErrorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
	})

	// 글로벌 미들웨어 설정
	app.Use(recover.New())
	app.Use(middleware.CORSConfig())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(func(c *fiber.Ctx) error {
		webUtils.SetResponseHeaders(c)
		return c.Next()
	})

	fs := &FiberServer{
		app:    app,
		config: deps.Config,
		logger: deps.Logger,
	}

	routes.NewRouter(app, deps).SetupRoutes()
	return fs
}

// Start 서버 시작 (종료될 때까지 블록)
func (fs *FiberServer) Start(port int) error {
	fs.isRunning.Store(true)
	defer fs.isRunning.Store(false)

	fs.logger.Infof("🌐 Fiber 서버 시작 - http://localhost:%d/api/v1", port)
	return fs.app.Listen(fmt.Sprintf(":%d", port))
}

// Stop 서버 정지 (진행 중인 요청은 ctx 만료까지 기다린다)
func (fs *FiberServer) Stop(ctx context.Context) error {
	if !fs.isRunning.Load() {
		return nil
	}

	fs.logger.Info("🛑 Fiber 서버 정지 중...")
	return fs.app.ShutdownWithContext(ctx)
}

// GetApp Fiber 앱 인스턴스 반환 (테스트용)
func (fs *FiberServer) GetApp() *fiber.App {
	return fs.app
}
