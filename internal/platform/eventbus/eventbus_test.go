package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisherEncodesEnvelope(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{writer: fw}

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		ID:         "evt-1",
		Type:       "timeline.item_recorded",
		Key:        "pet-1",
		OccurredAt: at,
		Payload:    map[string]string{"item_id": "i-1"},
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "pet-1", string(msg.Key))
	assert.Equal(t, "evt-1", string(msg.Headers[0].Value))
	assert.Equal(t, "timeline.item_recorded", string(msg.Headers[1].Value))

	var env struct {
		ID   string            `json:"id"`
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "evt-1", env.ID)
	assert.Equal(t, "i-1", env.Data["item_id"])

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestKafkaPublisherFillsIDAndTime(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{writer: fw}

	require.NoError(t, p.Publish(context.Background(), Event{Type: "x"}))
	require.Len(t, fw.msgs, 1)
	assert.NotEmpty(t, string(fw.msgs[0].Headers[0].Value))
	assert.False(t, fw.msgs[0].Time.IsZero())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), Event{Type: "a"}))
	require.NoError(t, r.Publish(context.Background(), Event{Type: "b"}))
	assert.Len(t, r.Events(), 2)
}
