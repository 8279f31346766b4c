package queue

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"messageboard/internal/domain"
)

type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return newKafka(producer, topic), nil
}

func newKafka(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{
		producer: producer,
		topic:    topic,
	}
}

func (k *Kafka) Publish(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Event{
		EventID: uuid.NewString(),
		Type:    EventMessageCreated,
		Message: msg,
	})
	if err != nil {
		return err
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(msg.ID, 10)),
		Value: sarama.ByteEncoder(data),
	})

	return err
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}
