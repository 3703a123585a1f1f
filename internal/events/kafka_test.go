package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_Publish_EncodesEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{writer: w}

	ev := Event{Type: OrderCreated, OrderID: 12, OrderNumber: "ORD-20240101-ABCDEF12"}
	require.NoError(t, p.Publish(context.Background(), TopicOrders, "12", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, []byte("12"), msg.Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, OrderCreated, got["type"])
	assert.EqualValues(t, 12, got["orderId"])
	assert.NotContains(t, got, "productId")
}

func TestProducer_Publish_WrapsWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), TopicProducts, "1", Event{Type: ProductCreated})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), TopicUsers, "1", Event{Type: UserRegistered}))
}
