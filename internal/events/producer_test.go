package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_ReusesWriterPerTopic(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"localhost:9092"})
	w1, err := p.writer(TopicOrders)
	require.NoError(t, err)
	w2, err := p.writer(TopicOrders)
	require.NoError(t, err)
	w3, err := p.writer(TopicReviews)
	require.NoError(t, err)

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, TopicReviews, w3.Topic)

	require.NoError(t, p.Close())
	_, err = p.writer(TopicOrders)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, p.PublishEvent(context.Background(), TopicOrders, "k", New("x", nil)), ErrClosed)
}

func TestProducer_RejectsUnmarshalableEvent(t *testing.T) {
	t.Parallel()

	p := NewProducer(nil)
	err := p.PublishEvent(context.Background(), TopicOrders, "k", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestEvent_JSONShape(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(New("order_captured", map[string]any{"orderId": "o1"}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "order_captured", m["type"])
	assert.Equal(t, "o1", m["data"].(map[string]any)["orderId"])
	assert.NotEmpty(t, m["occurredAt"])
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	require.NoError(t, r.PublishEvent(context.Background(), TopicOrders, "o1", New("order_created", nil)))
	require.NoError(t, r.PublishEvent(context.Background(), TopicReviews, "p1", New("review_created", nil)))

	assert.Len(t, r.Events(), 2)
	assert.Equal(t, []string{"order_created"}, r.Types(TopicOrders))
}
