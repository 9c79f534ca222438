package endpoint

import "context"

// Backend selects the endpoint client implementation
type Backend string

const (
	BackendOpenAI  Backend = "openai"
	BackendBedrock Backend = "bedrock"
)

// ChatRequest is a single-turn streaming chat completion request
type ChatRequest struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Chunk is one incremental piece of a streamed completion.
// FinishReason is empty until the server signals completion.
type Chunk struct {
	Content      string
	FinishReason string
}

// Stream yields chunks until io.EOF or an error.
// Close must unblock a pending Recv.
type Stream interface {
	Recv() (Chunk, error)
	Close() error
}

// Client issues streaming chat completions against one endpoint
type Client interface {
	StreamChat(ctx context.Context, req ChatRequest) (Stream, error)
}

// ClientConfig holds everything needed to construct a Client
type ClientConfig struct {
	Backend Backend
	BaseURL string
	APIKey  string

	// Bedrock only
	Region    string
	AccessKey string
	SecretKey string

	// MaxConns sizes the HTTP connection pool. Zero uses the transport default.
	MaxConns int
}

// NewClient creates the Client selected by cfg.Backend
func NewClient(ctx context.Context, cfg ClientConfig) (Client, error) {
	switch cfg.Backend {
	case BackendBedrock:
		return NewBedrockClient(ctx, cfg)
	case BackendOpenAI, "":
		return NewOpenAIClient(cfg)
	default:
		return nil, &UnsupportedBackendError{Backend: cfg.Backend}
	}
}

// UnsupportedBackendError is returned by NewClient for an unknown backend
type UnsupportedBackendError struct {
	Backend Backend
}

func (e *UnsupportedBackendError) Error() string {
	return "unsupported backend: " + string(e.Backend)
}
