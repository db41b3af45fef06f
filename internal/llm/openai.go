package llm

import (
	"context"
	"errors"
	"io"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the Chat Completions API. It
// also serves OpenRouter and Ollama, which speak the same protocol.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider creates a provider for api.openai.com, or for baseURL
// when it is not empty.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: model, name: "openai"}
}

// NewOpenRouterProvider creates a provider for the OpenRouter API.
func NewOpenRouterProvider(apiKey, model string) *OpenAIProvider {
	p := NewOpenAIProvider(apiKey, model, "https://openrouter.ai/api/v1")
	p.name = "openrouter"
	return p
}

// NewOllamaProvider creates a provider for an Ollama host through its
// OpenAI-compatible endpoint.
func NewOllamaProvider(host, model string) *OpenAIProvider {
	p := NewOpenAIProvider("ollama", model, host+"/v1")
	p.name = "ollama"
	return p
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiReq := p.buildRequest(req)
	if req.OnDelta != nil {
		return p.stream(ctx, apiReq, req.OnDelta)
	}

	resp, err := p.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	out := &CompletionResponse{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
	}
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		out.Content = choice.Message.Content
		out.FinishReason = string(choice.FinishReason)
		for _, tc := range choice.Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
		}
	}
	return out, nil
}

func (p *OpenAIProvider) buildRequest(req CompletionRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		m := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:       tc.ID,
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		messages = append(messages, m)
	}

	apiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		// Reasoning models reject max_tokens and any non-default temperature.
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
	}
	for _, t := range req.Tools {
		apiReq.Tools = append(apiReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return apiReq
}

// stream runs a streaming completion, forwarding content fragments and
// reassembling tool calls from their indexed deltas.
func (p *OpenAIProvider) stream(ctx context.Context, apiReq openai.ChatCompletionRequest, onDelta func(string)) (*CompletionResponse, error) {
	apiReq.Stream = true
	apiReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	s, err := p.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	out := &CompletionResponse{}
	var content []byte
	calls := map[int]*ToolCall{}
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if chunk.Model != "" {
			out.Model = chunk.Model
		}
		if chunk.Usage != nil {
			out.InputTokens = chunk.Usage.PromptTokens
			out.OutputTokens = chunk.Usage.CompletionTokens
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			out.FinishReason = string(choice.FinishReason)
		}
		if choice.Delta.Content != "" {
			content = append(content, choice.Delta.Content...)
			onDelta(choice.Delta.Content)
		}
		for i, d := range choice.Delta.ToolCalls {
			idx := i
			if d.Index != nil {
				idx = *d.Index
			}
			tc, ok := calls[idx]
			if !ok {
				tc = &ToolCall{}
				calls[idx] = tc
			}
			if d.ID != "" {
				tc.ID = d.ID
			}
			if d.Function.Name != "" {
				tc.Name = d.Function.Name
			}
			tc.Arguments += d.Function.Arguments
		}
	}

	out.Content = string(content)
	indexes := make([]int, 0, len(calls))
	for idx := range calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		out.ToolCalls = append(out.ToolCalls, *calls[idx])
	}
	return out, nil
}
