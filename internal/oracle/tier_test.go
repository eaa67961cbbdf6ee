package oracle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/pulse/internal/llm"
)

type fakeChatModel struct {
	content string
	err     error
	block   bool
	seen    []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.seen = input
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestChatTier_Generate(t *testing.T) {
	cm := &fakeChatModel{content: validScore}
	tier, err := NewChatTier(context.Background(), "primary", cm, TierOptions{})
	require.NoError(t, err)

	got, err := tier.Generate(context.Background(), Request{
		Call:              CallScore,
		SystemInstruction: "You quantify academic workload.",
		Prompt:            "Title: Essay",
		Schema:            ScoreSchema,
	})
	require.NoError(t, err)
	assert.Equal(t, validScore, got)
	assert.Equal(t, "primary", tier.Name())

	require.Len(t, cm.seen, 2)
	assert.Equal(t, schema.System, cm.seen[0].Role)
	assert.Contains(t, cm.seen[0].Content, "You quantify academic workload.")
	assert.Contains(t, cm.seen[0].Content, ScoreSchema)
	assert.Equal(t, schema.User, cm.seen[1].Role)
	assert.Equal(t, "Title: Essay", cm.seen[1].Content)
}

func TestChatTier_EmptyContent(t *testing.T) {
	tier, err := NewChatTier(context.Background(), "primary", &fakeChatModel{content: "  "}, TierOptions{})
	require.NoError(t, err)

	_, err = tier.Generate(context.Background(), scoreRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatTier_Timeout(t *testing.T) {
	tier, err := NewChatTier(context.Background(), "primary", &fakeChatModel{block: true}, TierOptions{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = tier.Generate(context.Background(), scoreRequest())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestChatTier_RateLimited(t *testing.T) {
	tier, err := NewChatTier(context.Background(), "secondary", &fakeChatModel{content: validScore}, TierOptions{RateLimit: 0.001, Burst: 1})
	require.NoError(t, err)

	_, err = tier.Generate(context.Background(), scoreRequest())
	require.NoError(t, err)

	_, err = tier.Generate(context.Background(), scoreRequest())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestChatTier_InOrchestrator(t *testing.T) {
	primary, err := NewChatTier(context.Background(), "primary", &fakeChatModel{err: errors.New("503")}, TierOptions{})
	require.NoError(t, err)
	secondary, err := NewChatTier(context.Background(), "secondary", &fakeChatModel{content: "```json\n" + validScore + "\n```"}, TierOptions{})
	require.NoError(t, err)

	o := NewOrchestrator([]Tier{primary, secondary}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	got := CallWithDegradation(context.Background(), o, scoreRequest(), nil, localScore)

	assert.Equal(t, SourceSecondary, got.Source)
	assert.Equal(t, 72.0, *got.Value.Score)
}

func TestNewChatTier_RequiresModel(t *testing.T) {
	_, err := NewChatTier(context.Background(), "primary", nil, TierOptions{})
	assert.Error(t, err)
}

func TestNewTiers_OmitsUnbuildable(t *testing.T) {
	tiers := NewTiers(context.Background(), []TierConfig{
		{Name: "primary", LLM: llm.Config{Provider: llm.ProviderGemini}},
		{Name: "secondary", LLM: llm.Config{Provider: "unknown", APIKey: "k"}},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Empty(t, tiers)
}

func TestBuildMessages_NoSystem(t *testing.T) {
	msgs := BuildMessages(Request{Prompt: "hi"})
	require.Len(t, msgs, 1)
	assert.Equal(t, schema.User, msgs[0].Role)
}
