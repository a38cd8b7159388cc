package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-tktt/job-insight/internal/domain"
)

// Analyzer computes chart data for a search request.
type Analyzer interface {
	SalaryMatrix(ctx context.Context, req domain.SearchRequest) ([]domain.MatrixCell, error)
	CompanyScatter(ctx context.Context, req domain.SearchRequest) ([]domain.ScatterPoint, error)
	WordCloud(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error)
	SkillNetwork(ctx context.Context, req domain.SearchRequest) (domain.Graph, error)
	SalaryBoxPlot(ctx context.Context, req domain.SearchRequest) ([]domain.BoxPlot, error)
	CityHierarchy(ctx context.Context, req domain.SearchRequest) ([]domain.TreeNode, error)
	AbilityRadar(ctx context.Context, req domain.SearchRequest) (domain.Radar, error)
	CityHeat(ctx context.Context, req domain.SearchRequest) ([]domain.HeatPoint, error)
	TechStack(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error)
	FinanceDistribution(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error)
	SalaryTrend(ctx context.Context, req domain.SearchRequest) ([]domain.TrendPoint, error)
}

// chart adapts one Analyzer method to a gin handler. errMsg is what the
// client sees when the computation fails.
func chart[T any](name, errMsg string, fn func(context.Context, domain.SearchRequest) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		req := bindSearch(ctx)
		data, err := fn(ctx.Request.Context(), req)
		if err != nil {
			slog.Error("generate chart failed",
				slog.String("chart", name),
				slog.String("city", req.City),
				slog.String("industry", req.Industry),
				slog.Any("error", err),
			)
			ctx.JSON(http.StatusOK, failure(errMsg))
			return
		}
		ctx.JSON(http.StatusOK, success(data))
	}
}

type AnalysisHandler struct {
	svc Analyzer
}

func NewAnalysisHandler(svc Analyzer) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

func (h *AnalysisHandler) PublicRoutes(server *gin.Engine) {
	const errMsg = "Error generating analysis data"
	g := server.Group("/api/v1/analysis")
	g.GET("/matrix", chart("matrix", errMsg, h.svc.SalaryMatrix))
	g.GET("/scatter", chart("scatter", errMsg, h.svc.CompanyScatter))
	g.GET("/wordcloud", chart("wordcloud", errMsg, h.svc.WordCloud))
	g.GET("/network", chart("network", errMsg, h.svc.SkillNetwork))
}

type MarketHandler struct {
	svc Analyzer
}

func NewMarketHandler(svc Analyzer) *MarketHandler {
	return &MarketHandler{svc: svc}
}

func (h *MarketHandler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/api/v1/market")
	g.GET("/heat", chart("heat", "Failed to load heat map data", h.svc.CityHeat))
	g.GET("/tech", chart("tech", "Failed to load tech stack data", h.svc.TechStack))
	g.GET("/finance", chart("finance", "Failed to load finance data", h.svc.FinanceDistribution))
	g.GET("/salary-trend", chart("salary-trend", "Failed to load salary trend data", h.svc.SalaryTrend))
	g.GET("/radar", chart("radar", "Failed to load radar data", h.svc.AbilityRadar))
}
