package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// TierOptions bounds a single remote tier.
type TierOptions struct {
	// Timeout caps one attempt. Zero means no tier-level timeout.
	Timeout time.Duration
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit float64
	// Burst is the limiter bucket size. Defaults to 1.
	Burst int
}

// ChatTier runs a request through an Eino graph: prompt -> model -> text.
type ChatTier struct {
	name    string
	chain   compose.Runnable[Request, string]
	limiter *rate.Limiter
	timeout time.Duration
}

// NewChatTier compiles the tier graph around a chat model.
func NewChatTier(ctx context.Context, name string, chatModel model.BaseChatModel, opts TierOptions) (*ChatTier, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("tier %s: chat model is required", name)
	}

	promptFunc := func(ctx context.Context, req Request) ([]*schema.Message, error) {
		return BuildMessages(req), nil
	}

	// Wrapped in a lambda so models without tool binding are accepted.
	modelFunc := func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
		return chatModel.Generate(ctx, input)
	}

	textFunc := func(ctx context.Context, output *schema.Message) (string, error) {
		if output == nil || strings.TrimSpace(output.Content) == "" {
			return "", ErrEmptyResponse
		}
		return output.Content, nil
	}

	graph := compose.NewGraph[Request, string]()

	_ = graph.AddLambdaNode("prompt", compose.InvokableLambda(promptFunc))
	_ = graph.AddLambdaNode("model", compose.InvokableLambda(modelFunc))
	_ = graph.AddLambdaNode("text", compose.InvokableLambda(textFunc))

	_ = graph.AddEdge(compose.START, "prompt")
	_ = graph.AddEdge("prompt", "model")
	_ = graph.AddEdge("model", "text")
	_ = graph.AddEdge("text", compose.END)

	chain, err := graph.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile tier %s: %w", name, err)
	}

	t := &ChatTier{
		name:    name,
		chain:   chain,
		timeout: opts.Timeout,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return t, nil
}

// Name returns the tier label (primary, secondary).
func (t *ChatTier) Name() string { return t.name }

// Generate runs one attempt. A denied rate-limit token fails immediately
// with ErrRateLimited rather than waiting.
func (t *ChatTier) Generate(ctx context.Context, req Request) (string, error) {
	if t.limiter != nil && !t.limiter.Allow() {
		return "", ErrRateLimited
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	// The select bounds the attempt even if a model client ignores ctx.
	type answer struct {
		text string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		text, err := t.chain.Invoke(ctx, req)
		done <- answer{text: text, err: err}
	}()

	select {
	case a := <-done:
		return a.text, a.err
	case <-ctx.Done():
		return "", fmt.Errorf("tier %s: %w", t.name, ctx.Err())
	}
}

// BuildMessages renders a request as a system + user message pair.
func BuildMessages(req Request) []*schema.Message {
	var sys strings.Builder
	sys.WriteString(strings.TrimSpace(req.SystemInstruction))
	if req.Schema != "" {
		if sys.Len() > 0 {
			sys.WriteString("\n\n")
		}
		sys.WriteString("Respond with a single JSON object and nothing else, matching this shape:\n")
		sys.WriteString(req.Schema)
	}

	msgs := make([]*schema.Message, 0, 2)
	if sys.Len() > 0 {
		msgs = append(msgs, schema.SystemMessage(sys.String()))
	}
	msgs = append(msgs, schema.UserMessage(req.Prompt))
	return msgs
}
