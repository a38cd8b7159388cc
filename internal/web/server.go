package web

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/project-tktt/job-insight/internal/web/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes is implemented by every handler group.
type Routes interface {
	PublicRoutes(server *gin.Engine)
}

type ServerConfig struct {
	// Origins allowed by CORS; an entry ending in "*" is a prefix match.
	AllowOrigins []string
	Registry     *prometheus.Registry
}

// NewServer builds the gin engine with CORS, request metrics, /healthz,
// /metrics and every handler group.
func NewServer(cfg ServerConfig, handlers ...Routes) *gin.Engine {
	res := gin.New()
	res.Use(gin.Recovery())
	res.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc:  originMatcher(cfg.AllowOrigins),
	}))

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	res.Use(middleware.NewMetricsBuilder(reg).Build())

	res.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	res.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	for _, h := range handlers {
		h.PublicRoutes(res)
	}
	return res
}

func originMatcher(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
			if prefix, ok := strings.CutSuffix(a, "*"); ok && strings.HasPrefix(origin, prefix) {
				return true
			}
			// http://localhost matches any port
			if strings.HasPrefix(origin, a+":") {
				return true
			}
		}
		return false
	}
}
