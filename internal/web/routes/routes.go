// internal/web/routes/routes.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"station-hopper/config"
	"station-hopper/internal/services/session"
	"station-hopper/internal/services/storage"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
	apiHandlers "station-hopper/internal/web/handlers/api"
	"station-hopper/internal/web/middleware"
	webServices "station-hopper/internal/web/services"
)

// 세션 요청 상한 (분당)
const sessionRequestsPerMinute = 120

// Router 라우터 구조체
type Router struct {
	app      *fiber.App
	config   *config.Config
	logger   *utils.Logger
	handlers *Handlers
}

// Handlers API 핸들러들
type Handlers struct {
	Status  *apiHandlers.StatusHandler
	Config  *apiHandlers.ConfigHandler
	Network *apiHandlers.NetworkHandler
	Session *apiHandlers.SessionHandler
	Archive *apiHandlers.ArchiveHandler
}

// Dependencies 의존성 구조체
type Dependencies struct {
	Config    *config.Config
	Logger    *utils.Logger
	Manager   *session.Manager
	Store     store.KVStore
	Archive   *storage.ElasticsearchService // nil이면 아카이브 비활성
	StartTime time.Time
}

// NewRouter 새로운 라우터 생성
func NewRouter(app *fiber.App, deps *Dependencies) *Router {
	// nil 포인터가 nil 아닌 인터페이스가 되지 않도록 분기
	var pinger webServices.ArchivePinger
	var ranker apiHandlers.VisitRanker
	if deps.Archive != nil {
		pinger = deps.Archive
		ranker = deps.Archive
	}

	statusService := webServices.NewStatusService(
		deps.Config,
		deps.Logger,
		deps.Manager.Graph(),
		deps.Store,
		pinger,
		deps.StartTime,
	)

	handlers := &Handlers{
		Status:  apiHandlers.NewStatusHandler(statusService),
		Config:  apiHandlers.NewConfigHandler(deps.Config),
		Network: apiHandlers.NewNetworkHandler(deps.Manager.Graph()),
		Session: apiHandlers.NewSessionHandler(deps.Manager, deps.Logger),
		Archive: apiHandlers.NewArchiveHandler(ranker),
	}

	return &Router{
		app:      app,
		config:   deps.Config,
		logger:   deps.Logger,
		handlers: handlers,
	}
}

// SetupRoutes 모든 라우트 설정
func (r *Router) SetupRoutes() {
	r.SetupAPIV1Routes()
	r.app.Use(middleware.NotFound())
}

// SetupAPIV1Routes API v1 라우트 설정
func (r *Router) SetupAPIV1Routes() {
	v1 := r.app.Group("/api/v1")

	v1.Use(middleware.RequestLogger(r.logger, r.config.Timezone))
	v1.Use(middleware.ErrorLogger(r.logger))
	v1.Use(middleware.APIKeyAuth(r.config.APIKey))

	// 상태
	status := v1.Group("/status")
	status.Get("/", r.handlers.Status.GetStatus)
	status.Get("/health", r.handlers.Status.GetHealthCheck)

	v1.Get("/config", r.handlers.Config.GetConfig)

	// 노선망 조회
	network := v1.Group("/network")
	network.Get("/lines", r.handlers.Network.GetLines)
	network.Get("/stations/:cd", r.handlers.Network.GetStation)
	network.Get("/route", r.handlers.Network.GetRoute)
	network.Get("/distances/:cd", r.handlers.Network.GetDistances)

	// 탐험 세션
	sess := v1.Group("/session", middleware.RateLimit(sessionRequestsPerMinute, time.Minute))
	sess.Get("/", r.handlers.Session.GetSession)
	sess.Get("/reveal-plan", r.handlers.Session.GetRevealPlan)
	sess.Get("/past", r.handlers.Session.GetPastDays)
	sess.Get("/stats", r.handlers.Session.GetStats)
	sess.Post("/start", r.handlers.Session.Start)
	sess.Post("/go", r.handlers.Session.Go)
	sess.Post("/reroll", r.handlers.Session.Reroll)
	sess.Post("/suspension", r.handlers.Session.ToggleSuspension)
	sess.Post("/exclude-past", r.handlers.Session.SetExcludePast)
	sess.Post("/reveal", r.handlers.Session.MarkRevealed)
	sess.Post("/finish", r.handlers.Session.Finish)
	sess.Post("/reset", r.handlers.Session.Reset)
	sess.Delete("/past/:date", r.handlers.Session.DeletePastDay)

	// 아카이브
	v1.Get("/archive/top", r.handlers.Archive.GetTopVisited)
}
