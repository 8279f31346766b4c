package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"messageboard/internal/domain"
)

func TestKafka_PublishEnvelope(t *testing.T) {
	req := require.New(t)

	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)

	msg := domain.Message{ID: 42, Content: "hello", CreatedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(pm *sarama.ProducerMessage) error {
		if pm.Topic != "messages.created" {
			return errors.New("unexpected topic " + pm.Topic)
		}
		key, err := pm.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return errors.New("unexpected key " + string(key))
		}

		raw, err := pm.Value.Encode()
		if err != nil {
			return err
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if _, err := uuid.Parse(ev.EventID); err != nil {
			return err
		}
		if ev.Type != EventMessageCreated ||
			ev.Message.ID != msg.ID ||
			ev.Message.Content != msg.Content ||
			!ev.Message.CreatedAt.Equal(msg.CreatedAt) {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	k := newKafka(producer, "messages.created")
	req.NoError(k.Publish(context.Background(), msg))
	req.NoError(k.Close())
}

func TestKafka_PublishFailure(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	k := newKafka(producer, "messages.created")
	err := k.Publish(context.Background(), domain.Message{ID: 1, Content: "x"})
	require.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, k.Close())
}

func TestKafka_PublishCancelled(t *testing.T) {
	cfg := mocks.NewTestConfig()
	producer := mocks.NewSyncProducer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k := newKafka(producer, "messages.created")
	require.ErrorIs(t, k.Publish(ctx, domain.Message{ID: 1}), context.Canceled)
	require.NoError(t, k.Close())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	require.NoError(t, p.Publish(context.Background(), domain.Message{ID: 1}))
	require.NoError(t, p.Close())
}
