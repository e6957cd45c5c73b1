// Package ai wraps the generative-text collaborator behind a small
// interface so handlers can be tested with a stub.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Client produces one assistant reply for a conversation history.
type Client interface {
	Generate(ctx context.Context, history []Message, language string) (string, error)
}

const systemPrompt = `You are an experienced farming advisor helping Indian farmers.
You give practical, region-aware advice on crops, soil, irrigation, pests,
fertilizers, equipment and government schemes. Keep answers short, concrete
and actionable for a smallholder farmer. If a question is not about farming,
politely steer the conversation back to farming topics.`

var languageInstruction = map[string]string{
	"en": "Respond in English.",
	"hi": "Respond in Hindi (Devanagari script).",
	"gu": "Respond in Gujarati script.",
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, history []Message, language string) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	instruction, ok := languageInstruction[language]
	if !ok {
		instruction = languageInstruction["en"]
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt+"\n"+instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
