package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient streams chat completions from an OpenAI-compatible server
// such as vLLM.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for cfg.BaseURL authenticated with cfg.APIKey
func NewOpenAIClient(cfg ClientConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base url is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// One idle connection per concurrent worker avoids reconnect churn.
	if cfg.MaxConns > 0 {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = cfg.MaxConns
		transport.MaxIdleConnsPerHost = cfg.MaxConns
		oc.HTTPClient = &http.Client{Transport: transport}
	}

	return &OpenAIClient{client: openai.NewClientWithConfig(oc)}, nil
}

// StreamChat issues a streaming chat completion
func (c *OpenAIClient) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: req.MaxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, err
	}
	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (Chunk, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return Chunk{}, err
	}
	// usage-only chunks carry no choices
	if len(resp.Choices) == 0 {
		return Chunk{}, nil
	}
	choice := resp.Choices[0]
	return Chunk{
		Content:      choice.Delta.Content,
		FinishReason: string(choice.FinishReason),
	}, nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}
