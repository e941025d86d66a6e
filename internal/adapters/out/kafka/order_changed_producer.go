// Package kafka publishes order change notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderChangedProducer implements ports.OrderChangedPublisher. Messages are
// keyed by order id so all changes of one order land on one partition in order.
type OrderChangedProducer struct {
	writer messageWriter
	topic  string
}

// NewOrderChangedProducer writes synchronously to topic on the given brokers.
func NewOrderChangedProducer(brokers []string, topic string) *OrderChangedProducer {
	return newOrderChangedProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, topic)
}

func newOrderChangedProducer(writer messageWriter, topic string) *OrderChangedProducer {
	return &OrderChangedProducer{writer: writer, topic: topic}
}

func (p *OrderChangedProducer) Publish(ctx context.Context, event ports.OrderChanged) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to topic %s: %w", event.Kind, p.topic, err)
	}
	return nil
}

func (p *OrderChangedProducer) Close() error {
	return p.writer.Close()
}

type orderChangedMessage struct {
	EventID    string        `json:"eventId"`
	Kind       string        `json:"kind"`
	OrderID    string        `json:"orderId"`
	StageIndex *int          `json:"stageIndex,omitempty"`
	ActorID    string        `json:"actorId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
	Order      orderSnapshot `json:"order"`
}

type orderSnapshot struct {
	OrderName       string          `json:"orderName"`
	ClientName      string          `json:"clientName"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	TotalDurationMs *int64          `json:"totalDurationMs,omitempty"`
	Version         int             `json:"version"`
	Stages          []stageSnapshot `json:"stages"`
}

type stageSnapshot struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	AssignedTo string     `json:"assignedTo,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	DurationMs *int64     `json:"durationMs,omitempty"`
}

func toMessage(event ports.OrderChanged) (kafka.Message, error) {
	if event.Order == nil {
		return kafka.Message{}, fmt.Errorf("order changed event %s has no order snapshot", event.Kind)
	}

	body := orderChangedMessage{
		EventID:    uuid.NewString(),
		Kind:       string(event.Kind),
		OrderID:    event.OrderID.String(),
		OccurredAt: event.OccurredAt,
		Order:      snapshot(event.Order),
	}
	if event.StageIndex != ports.NoStage {
		idx := event.StageIndex
		body.StageIndex = &idx
	}
	if event.ActorID != nil {
		body.ActorID = event.ActorID.String()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal order changed event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(body.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(body.EventID)},
			{Key: "event-type", Value: []byte(body.Kind)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.OccurredAt,
	}, nil
}

func snapshot(o *order.Order) orderSnapshot {
	s := orderSnapshot{
		OrderName:       o.OrderName(),
		ClientName:      o.ClientName(),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		CompletedAt:     o.CompletedAt(),
		TotalDurationMs: millis(o.TotalDuration()),
		Version:         o.Version(),
		Stages:          make([]stageSnapshot, 0, len(o.Stages())),
	}

	for _, st := range o.Stages() {
		ss := stageSnapshot{
			Index:      st.Position(),
			Name:       st.Name(),
			Status:     st.Status().String(),
			StartTime:  st.StartTime(),
			EndTime:    st.EndTime(),
			DurationMs: millis(st.Duration()),
		}
		if id := st.AssignedTo(); id != nil {
			ss.AssignedTo = id.String()
		}
		s.Stages = append(s.Stages, ss)
	}
	return s
}

func millis(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}
