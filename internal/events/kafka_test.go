package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{writer: writer}

	event := CheckoutEvent{
		Type:       PaymentApproved,
		OrderID:    "VS-1234561234",
		Total:      "5999.00",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	err := publisher.Publish(context.Background(), event.OrderID, event)
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte("VS-1234561234"), msg.Key)

	var decoded CheckoutEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_PropagatesWriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := &KafkaPublisher{writer: writer}

	err := publisher.Publish(context.Background(), "key", CheckoutEvent{Type: TicketCreated})
	assert.EqualError(t, err, "broker down")
}

func TestKafkaPublisher_UnencodableEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{writer: writer}

	err := publisher.Publish(context.Background(), "key", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, writer.messages)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "key", CheckoutEvent{}))
	assert.NoError(t, p.Close())
}
