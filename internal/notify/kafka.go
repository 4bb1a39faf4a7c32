package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the sender needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes messages as JSON to a Kafka topic, keyed by the
// recipient so one user's messages stay ordered within a partition.
type KafkaSender struct {
	w Writer
}

// NewKafkaSender connects a writer to brokers/topic.
func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return NewKafkaSenderWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	})
}

func NewKafkaSenderWithWriter(w Writer) *KafkaSender {
	return &KafkaSender{w: w}
}

func (s *KafkaSender) Send(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	err = s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(m.To, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(m.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error { return s.w.Close() }
