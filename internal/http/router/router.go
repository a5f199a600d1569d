// Package router assembles the gin engine: global middleware, CORS, the
// health endpoint, and the route groups modules mount onto.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	govalidator "github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/httpkit"
	"fieldservice_backend/platform/logger"
	"fieldservice_backend/platform/validator"
)

// Config carries everything the router needs.
type Config struct {
	Env  string
	HTTP config.HTTPConfig
	JWT  config.JWTConfig
	Log  *logger.Logger
}

// New builds the engine and returns it with the mountable route groups.
func New(cfg Config) (*gin.Engine, apphttp.RouterContext) {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		_ = v.RegisterValidation("weekday", validator.Weekday)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpkit.RequestLogger(cfg.Log))
	r.Use(httpkit.SecurityHeaders())
	r.Use(corsMiddleware(cfg.HTTP))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(20), 40, cfg.Log)
	r.Use(limiter.RateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1")
	api := r.Group("/api/v1")
	api.Use(httpkit.AuthRequired(cfg.JWT))

	return r, apphttp.RouterContext{Public: public, API: api}
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else if origins := cfg.GetCORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	return cors.New(corsCfg)
}
