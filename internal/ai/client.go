package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"chatline/internal/ai/component"
	"chatline/internal/config"
	"chatline/internal/model/chat"
)

const systemPrompt = "You are a helpful assistant. Answer the user's questions " +
	"concisely, taking the prior conversation into account."

// Client AI 能力层客户端
// 封装 Eino ChatModel，把对话历史转换成模型消息并同步生成回复；
// 不做流式、不做工具调用、失败不重试
type Client struct {
	cfg       *config.AIConfig
	chatModel model.ChatModel
}

// NewClient 创建 AI 客户端
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("initialized chat model")

	return &Client{
		cfg:       cfg,
		chatModel: chatModel,
	}, nil
}

// Complete 生成一条回复
// history 为升序的最近消息（通常已包含 query 本身这条用户消息）
func (c *Client) Complete(ctx context.Context, query string, history []chat.Message) (string, error) {
	messages := buildMessages(query, history)

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}

	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		log.Debug().
			Int("prompt_tokens", resp.ResponseMeta.Usage.PromptTokens).
			Int("completion_tokens", resp.ResponseMeta.Usage.CompletionTokens).
			Msg("completion generated")
	}

	return resp.Content, nil
}

// buildMessages 把历史消息映射成模型输入
// user -> UserMessage, bot -> AssistantMessage；历史末尾不是本次提问时
// 补一条用户消息，保证模型收到的最后一条是当前问题
func buildMessages(query string, history []chat.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))

	for _, msg := range history {
		switch msg.Role {
		case chat.RoleBot:
			messages = append(messages, schema.AssistantMessage(msg.Text, nil))
		default:
			messages = append(messages, schema.UserMessage(msg.Text))
		}
	}

	if n := len(history); n == 0 || history[n-1].Role != chat.RoleUser || history[n-1].Text != query {
		messages = append(messages, schema.UserMessage(query))
	}

	return messages
}
