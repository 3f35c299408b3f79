package services

import (
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/sahara/internal/models"
)

// KitchenPublisher pushes paid-order events onto a RabbitMQ queue so kitchen
// wall displays get updates without polling. Publishing is best-effort: the
// connection is dialed lazily and re-dialed after a failure, and callers only
// log the returned error.
type KitchenPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewKitchenPublisher constructs a publisher for the given queue.
func NewKitchenPublisher(url, queue string) *KitchenPublisher {
	return &KitchenPublisher{url: url, queue: queue}
}

// KitchenOrderEvent is the message body placed on the kitchen queue.
type KitchenOrderEvent struct {
	OrderID      string             `json:"order_id"`
	OrderNumber  string             `json:"order_number"`
	OrderType    string             `json:"order_type"`
	CustomerName string             `json:"customer_name"`
	Notes        string             `json:"notes"`
	Items        []KitchenOrderItem `json:"items"`
	PaidAt       time.Time          `json:"paid_at"`
}

// KitchenOrderItem is one line of a kitchen event.
type KitchenOrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Extras   string `json:"extras,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// PublishPaidOrder places an order-paid event on the kitchen queue.
func (p *KitchenPublisher) PublishPaidOrder(order models.Order) error {
	event := KitchenOrderEvent{
		OrderID:      order.ID.String(),
		OrderNumber:  order.OrderNumber,
		OrderType:    order.OrderType,
		CustomerName: order.CustomerName,
		Notes:        order.Notes,
		PaidAt:       time.Now().UTC(),
	}
	if order.PaidAt != nil {
		event.PaidAt = order.PaidAt.UTC()
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, KitchenOrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Extras:   item.Extras,
			Notes:    item.Notes,
		})
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		// Drop the broken connection so the next publish re-dials.
		p.reset()
		return err
	}
	return nil
}

// Close releases the broker connection.
func (p *KitchenPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

func (p *KitchenPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn
	p.ch = ch
	return ch, nil
}

func (p *KitchenPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
