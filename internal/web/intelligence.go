package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Conversational answers free-text questions. It never fails; problems are
// reported inside the reply.
type Conversational interface {
	Converse(ctx context.Context, message string) string
}

type IntelligenceHandler struct {
	svc  Analyzer
	chat Conversational
}

func NewIntelligenceHandler(svc Analyzer, chat Conversational) *IntelligenceHandler {
	return &IntelligenceHandler{svc: svc, chat: chat}
}

func (h *IntelligenceHandler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/api/v1/intelligence")
	g.GET("/salary-dist", chart("salary-dist", "Failed to load salary data", h.svc.SalaryBoxPlot))
	g.GET("/market-hierarchy", chart("market-hierarchy", "Failed to load hierarchy data", h.svc.CityHierarchy))
	g.POST("/chat", h.Chat)
}

func (h *IntelligenceHandler) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		slog.Warn("bind chat request failed", slog.Any("error", err))
		ctx.JSON(http.StatusOK, failure("AI Service Unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, success(h.chat.Converse(ctx.Request.Context(), req.Message)))
}
