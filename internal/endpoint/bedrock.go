package endpoint

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// converseStreamAPI is the subset of the Bedrock runtime client we use
type converseStreamAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// BedrockClient streams chat completions through the Bedrock Converse API,
// which gives every model family the same message and event shape.
type BedrockClient struct {
	client converseStreamAPI
}

// NewBedrockClient creates a Bedrock client
func NewBedrockClient(ctx context.Context, cfg ClientConfig) (*BedrockClient, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required for the bedrock backend")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}

	// If credentials are empty, use default credential chain (env, shared credentials, IAM role, etc.)
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.BaseURL != "" {
			o.BaseEndpoint = aws.String(cfg.BaseURL)
		}
	})

	return &BedrockClient{client: client}, nil
}

// StreamChat issues a ConverseStream request
func (c *BedrockClient) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	input := &bedrockruntime.ConverseStreamInput{
		ModelId: aws.String(req.Model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: req.Prompt},
				},
			},
		},
	}
	if req.MaxTokens > 0 {
		input.InferenceConfig = &types.InferenceConfiguration{
			MaxTokens: aws.Int32(int32(req.MaxTokens)),
		}
	}

	output, err := c.client.ConverseStream(ctx, input)
	if err != nil {
		return nil, err
	}
	return &bedrockStream{stream: output.GetStream()}, nil
}

type bedrockStream struct {
	stream *bedrockruntime.ConverseStreamEventStream
}

func (s *bedrockStream) Recv() (Chunk, error) {
	event, ok := <-s.stream.Events()
	if !ok {
		if err := s.stream.Err(); err != nil {
			return Chunk{}, fmt.Errorf("stream error: %w", err)
		}
		return Chunk{}, io.EOF
	}
	return convertEvent(event), nil
}

func (s *bedrockStream) Close() error {
	return s.stream.Close()
}

// convertEvent maps a Converse stream event to a Chunk. Events that carry
// neither text nor a stop reason (message start, metadata) become empty chunks.
func convertEvent(event types.ConverseStreamOutput) Chunk {
	switch e := event.(type) {
	case *types.ConverseStreamOutputMemberContentBlockDelta:
		if text, ok := e.Value.Delta.(*types.ContentBlockDeltaMemberText); ok {
			return Chunk{Content: text.Value}
		}
	case *types.ConverseStreamOutputMemberMessageStop:
		return Chunk{FinishReason: string(e.Value.StopReason)}
	}
	return Chunk{}
}
