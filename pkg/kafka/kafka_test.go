package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "index.complete")

	require.NoError(t, p.Publish(context.Background(), Event{
		Key:   "docs/1.doc.txt",
		Value: map[string]int{"terms": 16},
	}))
	require.Len(t, w.messages, 1)
	assert.Equal(t, "docs/1.doc.txt", string(w.messages[0].Key))
	assert.JSONEq(t, `{"terms":16}`, string(w.messages[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducerPublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "t")

	err := p.Publish(context.Background(), Event{Key: "k", Value: "v"})
	assert.ErrorContains(t, err, "broker down")

	err = p.Publish(context.Background(), Event{Key: "k", Value: make(chan int)})
	assert.ErrorContains(t, err, "marshaling event value")
}

type fakeReader struct {
	messages  []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestConsumerCommitsOnlyHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeReader{
		cancel: cancel,
		messages: []kafka.Message{
			{Key: []byte("ok"), Offset: 1},
			{Key: []byte("fail"), Offset: 2},
			{Key: []byte("ok"), Offset: 3},
		},
	}
	var seen []string
	c := newConsumer(r, "index.request", func(ctx context.Context, key, value []byte) error {
		seen = append(seen, string(key))
		if string(key) == "fail" {
			return errors.New("handler failed")
		}
		return nil
	})

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, []string{"ok", "fail", "ok"}, seen)
	require.Len(t, r.committed, 2)
	assert.EqualValues(t, 1, r.committed[0].Offset)
	assert.EqualValues(t, 3, r.committed[1].Offset)
	assert.True(t, r.closed)
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Path string `json:"path"`
	}
	data, _ := json.Marshal(req{Path: "a.txt"})

	got, err := DecodeJSON[req](data)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Path)

	_, err = DecodeJSON[req]([]byte("{"))
	assert.Error(t, err)
}
