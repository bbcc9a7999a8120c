package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-staff-registry/internal/core/department"
	"github.com/ogurasousui/codex-staff-registry/internal/core/position"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	"github.com/sirupsen/logrus"
)

// BasePath は REST API のベースパスです。
const BasePath = "/api/jpa"

// Pinger はヘルスチェックで利用する疎通確認インターフェースです。
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig は NewRouter の依存関係です。
type RouterConfig struct {
	Staff          staff.UseCase
	Departments    department.UseCase
	Positions      position.UseCase
	DB             Pinger
	Logger         logrus.FieldLogger
	AllowedOrigins []string
}

// NewRouter は gin のルーターを構築します。
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(RequestLogger(cfg.Logger))
	}
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/health", healthCheck(cfg.DB))

	api := router.Group(BasePath)
	NewStaffHandler(cfg.Staff).Register(api)
	NewDepartmentHandler(cfg.Departments).Register(api)
	NewPositionHandler(cfg.Positions).Register(api)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// RequestLogger はリクエストごとにステータスとレイテンシを logrus へ出力します。
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed with server error")
		case status >= http.StatusBadRequest:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
	}
}

func healthCheck(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "healthy"})
	}
}
