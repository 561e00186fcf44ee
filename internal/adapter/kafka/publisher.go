// Package kafka publishes order lifecycle events onto the audit stream
// consumed by the back office and analytics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Net.DialTimeout = 5 * time.Second
	return sarama.NewSyncProducer(brokers, cfg)
}

type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventPublisher(producer sarama.SyncProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// PublishStatusChanged emits one event per applied transition, keyed by
// order id so per-order ordering is preserved within a partition.
func (p *EventPublisher) PublishStatusChanged(_ context.Context, ev usecase.OrderStatusChangedMsg) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.OrderID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

func (p *EventPublisher) Close() error { return p.producer.Close() }

var _ usecase.EventPublisher = (*EventPublisher)(nil)
