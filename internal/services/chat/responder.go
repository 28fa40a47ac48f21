package chat

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// GPTResponder реализация Responder поверх OpenAI Chat Completions.
type GPTResponder struct {
	client *openai.Client
	model  string
}

// NewGPTResponder создает новый GPTResponder.
func NewGPTResponder(apiKey, model string) *GPTResponder {
	return &GPTResponder{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Respond собирает системную инструкцию с историей и отправляет запрос.
func (r *GPTResponder) Respond(ctx context.Context, systemPrompt string, history []models.ChatMessage, message string) (string, error) {
	const op = "chat.GPTResponder.Respond"

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, item := range history {
		role := openai.ChatMessageRoleUser
		if item.Role == models.ChatRoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: item.Text,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty completion", op)
	}
	return resp.Choices[0].Message.Content, nil
}
