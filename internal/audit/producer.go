package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventProducer — интерфейс для подмены моком в тестах handler'ов.
type EventProducer interface {
	Produce(ctx context.Context, event string, payload map[string]interface{})
	ProduceAsync(event string, payload map[string]interface{})
}

// Producer пишет события портала (login, logout, мутации тикетов) в топик
// Kafka. Best-effort: ошибки логируются и не влияют на ответ пользователю.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создаёт продюсер. Пустые brokers или topic — все методы no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Produce отправляет событие. payload: sid, role, ticket_id и т.п.
func (p *Producer) Produce(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{
		"event": event,
		"at":    time.Now().Unix(),
	}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("audit: marshal event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("audit: write event: %v", err)
	}
}

// ProduceAsync — Produce в отдельной горутине, не блокирует ответ портала.
func (p *Producer) ProduceAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.Produce(ctx, event, payload)
	}()
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
