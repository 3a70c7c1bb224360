package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"track-times/internal/auth"
	"track-times/internal/domain"
	"track-times/internal/exporter"
	"track-times/internal/service"
	"track-times/internal/storage"
)

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
	Parse(token string) (*auth.Claims, error)
}

// Options carries the handler's collaborators. Manager and Storage are nil when
// object storage is not configured.
type Options struct {
	Users     service.UserService
	Times     service.TimeService
	Exports   service.ExportService
	Manager   exporter.Manager
	Storage   storage.Service
	Tokens    TokenIssuer
	Bucket    string
	KeyPrefix string
	Logger    *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	times     service.TimeService
	exports   service.ExportService
	manager   exporter.Manager
	storage   storage.Service
	tokens    TokenIssuer
	bucket    string
	keyPrefix string
	logger    *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Handler{
		users:     opts.Users,
		times:     opts.Times,
		exports:   opts.Exports,
		manager:   opts.Manager,
		storage:   opts.Storage,
		tokens:    opts.Tokens,
		bucket:    opts.Bucket,
		keyPrefix: opts.KeyPrefix,
		logger:    opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	registerBindingValidations(h.logger)

	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/auth/login", h.login)

		api.POST("/users", h.createUser)
		api.GET("/users/:userId", h.getUser)
		api.GET("/users/:userId/times", h.listUserTimes)

		api.GET("/tracks", h.listTracks)
		api.GET("/tracks/:track/leaderboard", h.leaderboard)

		secured := api.Group("", h.requireAuth())
		{
			secured.DELETE("/users/:userId", h.requireSelf(), h.deleteUser)
			secured.POST("/times", h.recordTime)
			secured.POST("/users/:userId/exports", h.requireSelf(), h.createExport)
			secured.GET("/users/:userId/exports", h.requireSelf(), h.listExports)
			secured.GET("/exports/:id", h.getExport)
		}
	}
}

var bindingOnce sync.Once

// registerBindingValidations teaches gin's validator the domain rules so that
// binding tags such as `track` resolve.
func registerBindingValidations(logger *logrus.Logger) {
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warn("gin validator engine is not go-playground/validator; custom rules disabled")
			return
		}
		if err := domain.RegisterValidations(v); err != nil {
			logger.Errorf("register validations: %v", err)
		}
	})
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return cors.New(cfg)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
