// Package intelligence proxies questions to an OpenAI-compatible chat
// completion endpoint.
package intelligence

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	systemPrompt = "你是一名资深的招聘市场数据分析师，熟悉互联网行业的岗位需求、薪资水平与技术趋势。" +
		"请用简洁专业的中文回答用户关于招聘市场的问题，回答控制在150字以内。"

	emptyInputReply = "请输入您想了解的招聘信息。"
	noChoiceReply   = "AI 服务暂无响应，请稍后再试。"
	failureReply    = "连接 AI 服务时出现问题: "
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// Assistant is stateless: every message is sent on its own with the same
// system instruction.
type Assistant struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewAssistant(cfg Config) *Assistant {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.6
	}

	return &Assistant{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Converse answers one message. Failures come back as a readable reply
// instead of an error.
func (a *Assistant) Converse(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return emptyInputReply
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(message),
		},
		Model:       a.model,
		Temperature: openai.Float(a.temperature),
	})
	if err != nil {
		slog.Warn("chat completion failed", slog.String("model", a.model), slog.Any("error", err))
		return failureReply + err.Error()
	}
	if len(resp.Choices) == 0 {
		return noChoiceReply
	}
	return resp.Choices[0].Message.Content
}
