package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseServer replies to chat completions with one SSE event per token and a
// final event carrying finish_reason.
func sseServer(t *testing.T, tokens []string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for i, tok := range tokens {
			fmt.Fprintf(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", tok)
			if i == 0 {
				w.(http.Flusher).Flush()
			}
		}
		fmt.Fprint(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"length\"}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"c\",\"object\":\"chat.completion.chunk\",\"choices\":[],\"usage\":{\"completion_tokens\":3}}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAIClient_StreamChat(t *testing.T) {
	var body map[string]any
	srv := sseServer(t, []string{"a", "b", "c"}, &body)
	defer srv.Close()

	client, err := NewOpenAIClient(ClientConfig{BaseURL: srv.URL + "/v1/", APIKey: "secret", MaxConns: 4})
	require.NoError(t, err)

	stream, err := client.StreamChat(context.Background(), ChatRequest{Model: "m", Prompt: "hi", MaxTokens: 3})
	require.NoError(t, err)
	defer stream.Close()

	var chunks []Chunk
	for {
		c, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, c)
	}

	require.Len(t, chunks, 5)
	assert.Equal(t, "a", chunks[0].Content)
	assert.Equal(t, "c", chunks[2].Content)
	assert.Equal(t, "length", chunks[3].FinishReason)
	assert.Equal(t, Chunk{}, chunks[4])

	assert.Equal(t, "m", body["model"])
	assert.Equal(t, true, body["stream"])
	assert.EqualValues(t, 3, body["max_tokens"])
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(ClientConfig{BaseURL: srv.URL + "/v1", APIKey: "secret"})
	require.NoError(t, err)

	_, err = client.StreamChat(context.Background(), ChatRequest{Model: "m", Prompt: "hi", MaxTokens: 1})
	require.Error(t, err)
	assert.Equal(t, ErrTypeThrottling, Classify(err))
}

func TestNewOpenAIClient_RequiresBaseURL(t *testing.T) {
	_, err := NewOpenAIClient(ClientConfig{APIKey: "k"})
	assert.Error(t, err)
}

func TestNewClient_Backends(t *testing.T) {
	c, err := NewClient(context.Background(), ClientConfig{BaseURL: "http://localhost:8000/v1", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewClient(context.Background(), ClientConfig{Backend: "grpc"})
	var unsupported *UnsupportedBackendError
	assert.ErrorAs(t, err, &unsupported)

	_, err = NewClient(context.Background(), ClientConfig{Backend: BackendBedrock})
	assert.ErrorContains(t, err, "region is required")
}

func TestNewBedrockClient_StaticCredentials(t *testing.T) {
	c, err := NewBedrockClient(context.Background(), ClientConfig{
		Backend:   BackendBedrock,
		Region:    "us-east-1",
		AccessKey: "AKID",
		SecretKey: "SECRET",
		BaseURL:   "http://localhost:4566",
	})
	require.NoError(t, err)
	assert.NotNil(t, c.client)
}

func TestConvertEvent(t *testing.T) {
	delta := &types.ConverseStreamOutputMemberContentBlockDelta{
		Value: types.ContentBlockDeltaEvent{Delta: &types.ContentBlockDeltaMemberText{Value: "hi"}},
	}
	assert.Equal(t, Chunk{Content: "hi"}, convertEvent(delta))

	stop := &types.ConverseStreamOutputMemberMessageStop{
		Value: types.MessageStopEvent{StopReason: types.StopReasonMaxTokens},
	}
	assert.Equal(t, Chunk{FinishReason: "max_tokens"}, convertEvent(stop))

	start := &types.ConverseStreamOutputMemberMessageStart{}
	assert.Equal(t, Chunk{}, convertEvent(start))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ErrTypeTimeout},
		{"openai 401", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, ErrTypeAuth},
		{"openai 404", &openai.APIError{HTTPStatusCode: 404, Message: "model"}, ErrTypeModelNotFound},
		{"openai 400", &openai.APIError{HTTPStatusCode: 400}, ErrTypeValidation},
		{"openai 503", &openai.APIError{HTTPStatusCode: 503}, ErrTypeServer},
		{"request error", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, ErrTypeServer},
		{"aws throttling", &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate"}, ErrTypeThrottling},
		{"aws access", &smithy.GenericAPIError{Code: "AccessDeniedException"}, ErrTypeAuth},
		{"aws validation", &smithy.GenericAPIError{Code: "ValidationException"}, ErrTypeValidation},
		{"refused", errors.New("dial tcp: connection refused"), ErrTypeConnection},
		{"stream", errors.New("stream error: unexpected eof"), ErrTypeStream},
		{"other", errors.New("boom"), ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUnsupportedBackendError(t *testing.T) {
	err := &UnsupportedBackendError{Backend: "x"}
	assert.True(t, strings.HasSuffix(err.Error(), "x"))
}
