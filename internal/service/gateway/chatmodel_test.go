package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/serenity/backend/internal/testutil"
)

type fakeChatModel struct {
	chunks []*schema.Message
	err    error
	opts   *model.Options
	input  []*schema.Message
}

func (f *fakeChatModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) Stream(_ context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.input = in
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return schema.StreamReaderFromArray(f.chunks), nil
}

func TestChatModelProviderAppliesParamsAndDropsEmptyDeltas(t *testing.T) {
	cm := &fakeChatModel{chunks: []*schema.Message{
		schema.AssistantMessage("You ", nil),
		schema.AssistantMessage("", nil),
		schema.AssistantMessage("matter.", nil),
	}}
	p := NewChatModelProvider("ark", cm, DefaultParams("doubao-pro"))

	sr, err := p.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)

	out, err := testutil.Drain(sr)
	require.NoError(t, err)
	assert.Equal(t, "You matter.", out)

	require.NotNil(t, cm.opts.Temperature)
	assert.InDelta(t, 0.7, *cm.opts.Temperature, 1e-6)
	require.NotNil(t, cm.opts.MaxTokens)
	assert.Equal(t, 1024, *cm.opts.MaxTokens)
	require.NotNil(t, cm.opts.Model)
	assert.Equal(t, "doubao-pro", *cm.opts.Model)
	assert.Len(t, cm.input, 1)
}

func TestChatModelProviderOpenError(t *testing.T) {
	p := NewChatModelProvider("ark", &fakeChatModel{err: errors.New("quota")}, DefaultParams(""))
	_, err := p.Stream(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestChatModelProviderUnconfigured(t *testing.T) {
	p := NewChatModelProvider("ark", nil, DefaultParams(""))
	_, err := p.Stream(context.Background(), nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, "ark", p.Name())
}
